package cli

import (
	"fmt"
	"io"
	"strings"
)

// GenerateCompletion writes a completion script for the given shell.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, algorithms)
	case "zsh":
		return generateZshCompletion(out, algorithms)
	case "fish":
		return generateFishCompletion(out, algorithms)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, algorithms)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func generateBashCompletion(out io.Writer, algorithms []string) error {
	script := `# Bash completion script for fibengine
# Add this to your ~/.bashrc or ~/.bash_completion

_fibengine_completions() {
    local cur prev opts algorithms
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="--help -h --version -V -n -v -d --details --timeout --algo --threshold --fft-threshold --strassen-threshold --dynamic-thresholds --mod --last-digits --calibrate --auto-calibrate --calibration-profile --json --server --port --no-color --output -o --quiet -q --hex --completion"

    algorithms="%s all"

    case "${prev}" in
        --algo)
            COMPREPLY=( $(compgen -W "${algorithms}" -- "${cur}") )
            return 0
            ;;
        --completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            return 0
            ;;
        --output|-o|--calibration-profile)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        --port)
            COMPREPLY=( $(compgen -W "8080 3000 5000 9000" -- "${cur}") )
            return 0
            ;;
        --timeout)
            COMPREPLY=( $(compgen -W "1m 5m 10m 30m 1h" -- "${cur}") )
            return 0
            ;;
        --threshold|--fft-threshold|--strassen-threshold)
            COMPREPLY=( $(compgen -W "1024 2048 4096 8192 16384" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _fibengine_completions fibengine
`
	_, err := fmt.Fprintf(out, script, strings.Join(algorithms, " "))
	return err
}

func generateZshCompletion(out io.Writer, algorithms []string) error {
	script := `#compdef fibengine

# Zsh completion script for fibengine
# Add this to your ~/.zshrc or place in $fpath

_fibengine() {
    local -a algorithms
    algorithms=(%s all)

    _arguments -s \
        '(-h --help)'{-h,--help}'[Show help message]' \
        '(-V --version)'{-V,--version}'[Show version information]' \
        '-n[Index n of Fibonacci number]:number:' \
        '-v[Display full result value]' \
        '(-d --details)'{-d,--details}'[Show performance details]' \
        '--timeout[Maximum execution time]:duration:(1m 5m 10m 30m 1h)' \
        '--algo[Algorithm to use]:algorithm:($algorithms)' \
        '--threshold[Parallelism threshold in bits]:bits:(1024 2048 4096 8192 16384)' \
        '--fft-threshold[FFT threshold in bits]:bits:(100000 500000 1000000)' \
        '--strassen-threshold[Strassen threshold in bits]:bits:(1024 2048 3072 4096)' \
        '--dynamic-thresholds[Retune thresholds at runtime]' \
        '--mod[Compute F(n) modulo this value]:modulus:' \
        '--last-digits[Keep only the last K decimal digits]:digits:' \
        '--calibrate[Run calibration mode]' \
        '--auto-calibrate[Enable auto-calibration]' \
        '--calibration-profile[Calibration profile file]:file:_files' \
        '--json[Output in JSON format]' \
        '--server[Start HTTP server mode]' \
        '--port[Server port]:port:(8080 3000 5000 9000)' \
        '--no-color[Disable colored output]' \
        '(-o --output)'{-o,--output}'[Output file path]:file:_files' \
        '(-q --quiet)'{-q,--quiet}'[Quiet mode for scripts]' \
        '--hex[Display result in hexadecimal]' \
        '--completion[Generate completion script]:shell:(bash zsh fish powershell)'
}

_fibengine "$@"
`
	_, err := fmt.Fprintf(out, script, strings.Join(algorithms, " "))
	return err
}

func generateFishCompletion(out io.Writer, algorithms []string) error {
	script := `# Fish completion script for fibengine
# Add this to ~/.config/fish/completions/fibengine.fish

# Disable file completion by default
complete -c fibengine -f

# Help and version
complete -c fibengine -s h -l help -d 'Show help message'
complete -c fibengine -s V -l version -d 'Show version information'

# Main options
complete -c fibengine -s n -d 'Fibonacci index to calculate' -x
complete -c fibengine -s v -d 'Display full result value'
complete -c fibengine -s d -l details -d 'Show performance details'
complete -c fibengine -l timeout -d 'Maximum execution time' -xa '1m 5m 10m 30m 1h'
complete -c fibengine -l algo -d 'Algorithm to use' -xa '%s all'
complete -c fibengine -l threshold -d 'Parallelism threshold in bits' -xa '1024 2048 4096 8192 16384'
complete -c fibengine -l fft-threshold -d 'FFT threshold in bits' -xa '100000 500000 1000000'
complete -c fibengine -l strassen-threshold -d 'Strassen threshold' -xa '1024 2048 3072 4096'
complete -c fibengine -l dynamic-thresholds -d 'Retune thresholds at runtime'

# Modular computation
complete -c fibengine -l mod -d 'Compute F(n) modulo this value' -x
complete -c fibengine -l last-digits -d 'Keep only the last K decimal digits' -x

# Calibration
complete -c fibengine -l calibrate -d 'Run calibration mode'
complete -c fibengine -l auto-calibrate -d 'Enable auto-calibration'
complete -c fibengine -l calibration-profile -d 'Calibration profile file' -rF

# Output options
complete -c fibengine -l json -d 'Output in JSON format'
complete -c fibengine -s o -l output -d 'Output file path' -rF
complete -c fibengine -s q -l quiet -d 'Quiet mode for scripts'
complete -c fibengine -l hex -d 'Display result in hexadecimal'
complete -c fibengine -l no-color -d 'Disable colored output'

# Server mode
complete -c fibengine -l server -d 'Start HTTP server mode'
complete -c fibengine -l port -d 'Server port' -xa '8080 3000 5000 9000'

# Completion
complete -c fibengine -l completion -d 'Generate completion script' -xa 'bash zsh fish powershell'
`
	_, err := fmt.Fprintf(out, script, strings.Join(algorithms, " "))
	return err
}

func generatePowerShellCompletion(out io.Writer, algorithms []string) error {
	script := `# PowerShell completion script for fibengine
# Add this to your $PROFILE

$fibengineAlgorithms = @(%s, 'all')

Register-ArgumentCompleter -CommandName 'fibengine' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
        @{Name = '-h'; Description = 'Show help message' }
        @{Name = '--help'; Description = 'Show help message' }
        @{Name = '-V'; Description = 'Show version information' }
        @{Name = '--version'; Description = 'Show version information' }
        @{Name = '-n'; Description = 'Fibonacci index to calculate' }
        @{Name = '-v'; Description = 'Display full result value' }
        @{Name = '-d'; Description = 'Show performance details' }
        @{Name = '--details'; Description = 'Show performance details' }
        @{Name = '--timeout'; Description = 'Maximum execution time' }
        @{Name = '--algo'; Description = 'Algorithm to use' }
        @{Name = '--threshold'; Description = 'Parallelism threshold in bits' }
        @{Name = '--fft-threshold'; Description = 'FFT threshold in bits' }
        @{Name = '--strassen-threshold'; Description = 'Strassen threshold' }
        @{Name = '--dynamic-thresholds'; Description = 'Retune thresholds at runtime' }
        @{Name = '--mod'; Description = 'Compute F(n) modulo this value' }
        @{Name = '--last-digits'; Description = 'Keep only the last K decimal digits' }
        @{Name = '--calibrate'; Description = 'Run calibration mode' }
        @{Name = '--auto-calibrate'; Description = 'Enable auto-calibration' }
        @{Name = '--calibration-profile'; Description = 'Calibration profile file' }
        @{Name = '--json'; Description = 'Output in JSON format' }
        @{Name = '--server'; Description = 'Start HTTP server mode' }
        @{Name = '--port'; Description = 'Server port' }
        @{Name = '--no-color'; Description = 'Disable colored output' }
        @{Name = '-o'; Description = 'Output file path' }
        @{Name = '--output'; Description = 'Output file path' }
        @{Name = '-q'; Description = 'Quiet mode for scripts' }
        @{Name = '--quiet'; Description = 'Quiet mode for scripts' }
        @{Name = '--hex'; Description = 'Display result in hexadecimal' }
        @{Name = '--completion'; Description = 'Generate completion script' }
    )

    $elements = $commandAst.CommandElements
    $lastElement = if ($elements.Count -gt 1) { $elements[-1].ToString() } else { '' }
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
        '--algo' {
            $fibengineAlgorithms | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--completion' {
            @('bash', 'zsh', 'fish', 'powershell') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--timeout' {
            @('1m', '5m', '10m', '30m', '1h') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--port' {
            @('8080', '3000', '5000', '9000') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`
	quoted := make([]string, len(algorithms))
	for i, algo := range algorithms {
		quoted[i] = fmt.Sprintf("'%s'", algo)
	}
	_, err := fmt.Fprintf(out, script, strings.Join(quoted, ", "))
	return err
}
