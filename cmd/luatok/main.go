/*
Luatok reads a Lua 5.3 source file and prints either its token stream or the
FIRST/FOLLOW sets of the Lua grammar.

Usage:

	luatok [flags] [FILE]

The flags are:

	-v, --version
		Give the current version of luatok and then exit.

	-s, --sets
		Print the grammar's FIRST/FOLLOW tables instead of tokenising FILE.

	-i, --interactive
		Read lines from stdin (with readline-style editing and history) and print
		the token stream for each line as it is entered, instead of reading
		FILE.

	-c, --config FILE
		Load default flag values (FIRST/FOLLOW table width) from a TOML
		config file.

	--eval-numbers
		When tokenising, also print the decoded Lua value of each Numeral
		token on its own line after the token. The raw lexeme is not printed.

If FILE is omitted and -i is not given, source is read from stdin.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/dekarrin/ictiobus/internal/collect"
	"github.com/dekarrin/ictiobus/lex"
	"github.com/dekarrin/ictiobus/lua"
	"github.com/spf13/pflag"
)

const Version = "0.1.0"

const (
	ExitSuccess = iota
	ExitUsageError
	ExitLexError
	ExitGrammarError
)

// config holds the subset of flags a --config TOML file may supply
// defaults for; command-line flags always take precedence.
type config struct {
	TableWidth int `toml:"table_width"`
}

var cfg = config{TableWidth: 100}

var (
	flagVersion     = pflag.BoolP("version", "v", false, "Print the version and exit")
	flagSets        = pflag.BoolP("sets", "s", false, "Print FIRST/FOLLOW tables instead of tokenising")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Read and tokenise lines from stdin interactively")
	flagConfig      = pflag.StringP("config", "c", "", "Load default flag values from a TOML config file")
	flagEvalNumbers = pflag.Bool("eval-numbers", false, "Also print the decoded value of each Numeral token")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()

	if *flagConfig != "" {
		if _, err := toml.DecodeFile(*flagConfig, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading config %s: %s\n", *flagConfig, err)
			return ExitUsageError
		}
	}

	if *flagVersion {
		fmt.Printf("luatok %s\n", Version)
		return ExitSuccess
	}

	if *flagSets {
		g, err := lua.BuildGrammar()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: building grammar: %s\n", err)
			return ExitGrammarError
		}
		fmt.Println(g.FormatSetsWidth(cfg.TableWidth))
		return ExitSuccess
	}

	if *flagInteractive {
		return runInteractive()
	}

	src, err := readSource(pflag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitUsageError
	}

	return printTokens(src)
}

func readSource(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "WARN: ignoring extra arguments %s; only the first file is read\n", collect.MakeTextList(args[1:]))
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func printTokens(src string) int {
	tk, ok := lua.BuildLexer()
	if !ok {
		fmt.Fprintln(os.Stderr, "ERROR: building lexer")
		return ExitLexError
	}

	toks, err := tk.Tokenise(src)
	for _, tok := range toks {
		printToken(tok)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitLexError
	}
	return ExitSuccess
}

func printToken(tok lex.Token[lua.Terminal]) {
	fmt.Println(tok.String())
	if *flagEvalNumbers {
		if n, ok := tok.Payload.(lua.Numeral); ok {
			fmt.Printf("  = %s\n", n.String())
		}
	}
}

func runInteractive() int {
	tk, ok := lua.BuildLexer()
	if !ok {
		fmt.Fprintln(os.Stderr, "ERROR: building lexer")
		return ExitLexError
	}

	rl, err := readline.New("lua> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: starting readline: %s\n", err)
		return ExitUsageError
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return ExitSuccess
		}
		if line == "" {
			continue
		}

		toks, tokErr := tk.Tokenise(line)
		for _, tok := range toks {
			printToken(tok)
		}
		if tokErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", tokErr)
		}
	}
}
