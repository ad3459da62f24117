package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptforge/forge/internal/aitool"
	"github.com/promptforge/forge/internal/config"
	"github.com/promptforge/forge/internal/generate"
	"github.com/promptforge/forge/internal/mcpserver"
	"github.com/promptforge/forge/internal/naming"
	"github.com/promptforge/forge/internal/output"
	"github.com/promptforge/forge/internal/scaffold"
	"github.com/promptforge/forge/internal/variant"
)

// version is set via ldflags at release time.
var version = ""

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "forge",
		Short:   "Compose AI prompts from persona, action, and example templates",
		Version: resolveVersion(),
	}

	root.AddCommand(initCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(listCmd())
	root.AddCommand(saveCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(completionCmd())

	return root
}

// resolveVersion returns the ldflags version, falling back to the git short
// hash and finally "dev".
func resolveVersion() string {
	if version != "" {
		return version
	}
	if out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		if v := strings.TrimSpace(string(out)); v != "" {
			return v
		}
	}
	return "dev"
}

func projectDir() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// actionCompletion returns a completion function that suggests action names
// from the template root.
func actionCompletion() func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		dir, err := os.Getwd()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg, err := config.Load(dir)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		gen, err := generate.New(dir, cfg, variant.NewCache())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		actions, err := gen.Actions()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var completions []string
		for _, a := range actions {
			if strings.HasPrefix(a, toComplete) {
				completions = append(completions, a)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create forge.toml and a starter template root in the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := scaffold.Init(projectDir(), force)
			if err != nil {
				return err
			}
			for _, path := range created {
				output.Success("created %s", output.Path(path))
			}
			output.Text("Edit %s to configure prompts and variants, then run forge generate.", config.ConfigFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing forge.toml (templates you edited are kept)")
	return cmd
}

func generateCmd() *cobra.Command {
	var persona string
	var examples []string
	var tool, library, outputDir string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:               "generate [action]",
		Short:             "Generate prompt files from the template root",
		Long: `Generate prompt files from the template root.

With no arguments every action template is generated, plus the variants
configured in forge.toml. Variants without a saved template go through an
AI CLI tool (` + strings.Join(aitool.Names(), ", ") + `).`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: actionCompletion(),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir()
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			cfg = cfg.MergeOverrides(tool, library, outputDir)

			gen, err := generate.New(dir, cfg, variant.NewCache())
			if err != nil {
				return err
			}
			if timeout > 0 {
				gen.Timeout = timeout
			}

			var res generate.Result
			if len(args) == 1 {
				output.Progress("generating %s", args[0])
				res = gen.GenerateAction(cmd.Context(), args[0], persona, examples)
			} else {
				res, err = generateAll(cmd, gen, persona, examples)
				if err != nil {
					return err
				}
			}

			return report(res)
		},
	}

	cmd.Flags().StringVarP(&persona, "persona", "p", "", "Persona to compose with (overrides forge.toml)")
	cmd.Flags().StringSliceVarP(&examples, "example", "e", nil, "Examples to include (repeatable)")
	cmd.Flags().StringVar(&tool, "tool", "", "Output tool format: "+strings.Join(naming.Tools(), ", "))
	cmd.Flags().StringVar(&library, "library", "", "Library name used in output paths")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (overrides forge.toml)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-variant AI tool timeout (default 60s)")
	return cmd
}

// generateAll runs every action with a per-action spinner line.
func generateAll(cmd *cobra.Command, gen *generate.Generator, persona string, examples []string) (generate.Result, error) {
	actions, err := gen.Actions()
	if err != nil {
		return generate.Result{}, err
	}
	if len(actions) == 0 {
		return generate.Result{}, fmt.Errorf("no action templates found; run forge init or add templates under actions/")
	}

	spinner := output.NewLineSpinner(len(actions))
	for i, action := range actions {
		spinner.SetLine(i, fmt.Sprintf("%%s %s", action))
	}

	done := make(chan struct{})
	go func() {
		spinner.Run()
		close(done)
	}()

	var res generate.Result
	for i, action := range actions {
		sub := gen.GenerateAction(cmd.Context(), action, persona, examples)
		res.Files = append(res.Files, sub.Files...)
		res.Errors = append(res.Errors, sub.Errors...)
		res.Warnings = append(res.Warnings, sub.Warnings...)

		switch {
		case len(sub.Errors) > 0:
			spinner.Resolve(i, "✗")
		case len(sub.Warnings) > 0:
			spinner.Resolve(i, "!")
		default:
			spinner.Resolve(i, "✓")
		}
	}

	spinner.Stop()
	<-done
	return res, nil
}

func report(res generate.Result) error {
	var blocks []output.Block
	for _, f := range res.Files {
		blocks = append(blocks, output.SuccessBlock{Message: "wrote " + output.Path(f)})
	}
	for _, w := range res.Warnings {
		blocks = append(blocks, output.WarningBlock{Message: w})
	}
	for _, e := range res.Errors {
		blocks = append(blocks, output.ErrorBlock{Message: e})
	}
	output.Render(os.Stdout, blocks)

	if !res.OK() {
		return fmt.Errorf("%d action(s) failed", len(res.Errors))
	}
	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list [personas|actions|examples|variants|tools]",
		Short:     "List personas, actions, examples, variant templates, and tools",
		ValidArgs: []string{"personas", "actions", "examples", "variants", "tools"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir()
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			gen, err := generate.New(dir, cfg, variant.NewCache())
			if err != nil {
				return err
			}
			loader := gen.Loader()

			only := ""
			if len(args) == 1 {
				only = args[0]
			}
			want := func(section string) bool {
				return only == "" || only == section
			}

			sections := []struct {
				name  string
				title string
				list  func() ([]string, error)
			}{
				{"personas", "Personas", loader.ListPersonas},
				{"actions", "Actions", loader.ListActions},
				{"examples", "Examples", loader.ListExamples},
				{"variants", "Variant templates", loader.ListVariantTemplates},
			}
			for _, sec := range sections {
				if !want(sec.name) {
					continue
				}
				names, err := sec.list()
				if err != nil {
					return err
				}
				output.Text("%s:", sec.title)
				if len(names) == 0 {
					output.Text("  %s", output.Dim("(none)"))
				}
				for _, name := range names {
					output.Text("  %s", name)
				}
			}

			if !want("tools") {
				return nil
			}
			output.Text("Output tools:")
			for _, name := range naming.Tools() {
				conv, err := naming.ForTool(name)
				if err != nil {
					continue
				}
				output.Text("  %-12s %s", name, output.Dim(conv.Description()))
			}

			output.Text("AI CLI tools on PATH:")
			detected := aitool.Detect()
			if len(detected) == 0 {
				output.Text("  %s", output.Dim("(none)"))
			}
			for _, t := range detected {
				output.Text("  %s", t.Name)
			}
			return nil
		},
	}
}

func saveCmd() *cobra.Command {
	var variants, actions []string
	var force, list bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Generate configured variants and save them as reusable action templates",
		Long: `Generate the variants configured in forge.toml and save each one as an
action template named <variant>-<action> in the template root. Saved
variants render locally on later runs, skipping the AI round-trip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir()
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			root := cfg.RootLocation(dir)
			if strings.HasPrefix(root, "github://") {
				return fmt.Errorf("cannot save variants into a remote template root")
			}

			gen, err := generate.New(dir, cfg, variant.NewCache())
			if err != nil {
				return err
			}
			if timeout > 0 {
				gen.Timeout = timeout
			}
			saver := variant.NewSaver(root, gen.Loader())

			if list {
				for i := range cfg.Prompts {
					pc := &cfg.Prompts[i]
					for _, v := range pc.Variants {
						status := "not saved"
						if _, err := os.Stat(saver.TemplatePath(v, pc.Action)); err == nil {
							status = "saved"
						}
						output.Text("%s-%s  %s", v, pc.Action, output.Dim(status))
					}
				}
				return nil
			}

			requested := 0
			for i := range cfg.Prompts {
				pc := &cfg.Prompts[i]
				if !selected(actions, pc.Action) {
					continue
				}
				for _, v := range pc.Variants {
					if !selected(variants, v) {
						continue
					}
					requested++

					if _, err := os.Stat(saver.TemplatePath(v, pc.Action)); err == nil && !force {
						output.Text("%s-%s already saved (use --force to regenerate)", v, pc.Action)
						continue
					}

					name := v + "-" + pc.Action
					err := output.Spin("Generating "+name, func() error {
						_, err := gen.ResolveVariant(cmd.Context(), v, pc.Action, pc.Persona, cfg.EffectiveMetadata(pc), pc.CLITool)
						return err
					})
					if err != nil {
						output.Error("%s: %v", name, err)
					}
				}
			}
			if requested == 0 {
				return fmt.Errorf("no configured variants match; check the [[prompt]] blocks in %s", config.ConfigFile)
			}

			entries := variant.Filter(gen.Cache().All(), variants, actions)
			for _, st := range saver.SaveAll(entries, force) {
				if st.Saved {
					output.Success("saved %s", output.Path(st.Path))
				} else {
					output.Warning("skipped %s: %s", st.Path, st.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&variants, "variant", nil, "Only save these variants (repeatable)")
	cmd.Flags().StringSliceVar(&actions, "action", nil, "Only save variants of these actions (repeatable)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing saved variant templates")
	cmd.Flags().BoolVar(&list, "list", false, "List configured variants and their save status without generating")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-variant AI tool timeout (default 60s)")
	return cmd
}

func selected(filter []string, name string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == name {
			return true
		}
	}
	return false
}

func mcpCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve prompts and generation tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := project
			if dir == "" {
				dir = projectDir()
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			srv, err := mcpserver.New(dir, cfg, resolveVersion())
			if err != nil {
				return err
			}
			return srv.Serve()
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project directory (defaults to the working directory)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the forge version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "forge version %s\n", resolveVersion())
			return nil
		},
	}
}

func completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion script",
		Long: `Generate a shell completion script for forge.

To load completions:

Bash:
  $ source <(forge completion bash)

Zsh:
  $ forge completion zsh > "${fpath[1]}/_forge"

Fish:
  $ forge completion fish | source
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			}
			return nil
		},
	}
}
