package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/ra"
)

// Completions are static: they run during ParseOrExit, before any config is
// loaded, and must not touch the network.

func completeFollowKinds(toComplete string) ([]string, ra.CompletionDirective) {
	return withPrefix(followKinds, toComplete), ra.CompletionDirectiveNoFileComp
}

func completePreferences(toComplete string) ([]string, ra.CompletionDirective) {
	return withPrefix(preferenceNames, toComplete), ra.CompletionDirectiveNoFileComp
}

func completeMembershipTypes(toComplete string) ([]string, ra.CompletionDirective) {
	return withPrefix(membershipTypes, toComplete), ra.CompletionDirectiveNoFileComp
}

// withPrefix returns the options that start with prefix, case-insensitively.
func withPrefix(options []string, prefix string) []string {
	var result []string
	for _, o := range options {
		if strings.HasPrefix(strings.ToLower(o), strings.ToLower(prefix)) {
			result = append(result, o)
		}
	}
	return result
}

// registerCompletion adds the "trellis completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
