package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/staranto/stargazers/internal/meta"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for stargazers
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_stargazers()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "time retry json hash zip completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
        time)
            local opts="$common --repeat -n --keep-going -k --strict"
            ;;
        retry)
            local opts="$common --max-tries -m --base-delay --jitter --max-elapsed --strict"
            ;;
        json)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "get squish pretty diff set" -- "$cur") )
                return 0
            fi
            local opts="--cache --indent -i --write -w --exit-code --filter -f --output -o"
            ;;
        hash)
            local opts="$common --mod -m --basename -b"
            ;;
        zip)
            local opts="$common --upload -u --profile --region --endpoint"
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -o dirnames -- "$cur") )
                return 0
            fi
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text table json yaml" -- "$cur") )
        return 0
    fi
    if [[ "$prev" == "--indent" || "$prev" == "-i" ]]; then
        COMPREPLY=( $(compgen -W "tight loose sparse standard" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _stargazers stargazers
`

const zshCompletionScript = `#compdef stargazers

_stargazers() {
  local -a cmds
  cmds=(
    'time:lap timer for a command or stdin'
    'retry:run a command with exponential backoff'
    'json:read, query, reformat, compare and edit JSON'
    'hash:short crc32 hashes'
    'zip:zip a directory'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[columns to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored table output]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text table json yaml)'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'stargazers commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    time)
      _arguments -C \
        $common \
        '(-n --repeat)'{-n,--repeat}'[runs]:count' \
        '(-k --keep-going)'{-k,--keep-going}'[keep repeating after a failure]' \
        '--strict[treat timer misuse as an error]' \
        '*::command:_normal'
      ;;
    retry)
      _arguments -C \
        $common \
        '(-m --max-tries)'{-m,--max-tries}'[attempts]:count' \
        '--base-delay[base delay]:duration' \
        '--jitter[maximum jitter]:duration' \
        '--max-elapsed[overall limit]:duration' \
        '--strict[treat timer misuse as an error]' \
        '*::command:_normal'
      ;;
    json)
      _arguments -C \
        '1: :(get squish pretty diff set)' \
        '--cache[cache s3 documents]' \
        '(-i --indent)'{-i,--indent}'[indent]:indent:(tight loose sparse standard)' \
        '(-w --write)'{-w,--write}'[rewrite in place]' \
        '--exit-code[exit 1 when different]' \
        '*:file:_files'
      ;;
    hash)
      _arguments -C \
        $common \
        '(-m --mod)'{-m,--mod}'[modulus]:mod' \
        '(-b --basename)'{-b,--basename}'[hash basenames]' \
        '*:value:_files'
      ;;
    zip)
      _arguments -C \
        $common \
        '(-u --upload)'{-u,--upload}'[s3 location]:location' \
        '--profile[AWS profile]:profile' \
        '--region[AWS region]:region' \
        '--endpoint[S3 endpoint URL]:url' \
        '1:directory:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _stargazers stargazers
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	case "":
		// Try to detect from SHELL
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			return fmt.Errorf("usage: stargazers completion [bash|zsh]")
		}
	default:
		return fmt.Errorf("unsupported shell %q", shell)
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "stargazers completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
