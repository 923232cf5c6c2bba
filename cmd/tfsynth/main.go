package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pangealabs/tfsynth/pkg/config"
	"github.com/pangealabs/tfsynth/pkg/input"
	"github.com/pangealabs/tfsynth/pkg/logging"
	"github.com/pangealabs/tfsynth/pkg/resources/aws"
	"github.com/pangealabs/tfsynth/pkg/synth"
)

var synthCfg struct {
	input      string
	out        string
	configFile string
	compact    bool
	verbose    bool
	jsonLog    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tfsynth",
		Short:         "Synthesize Terraform JSON configuration from declarations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	synthCmd := &cobra.Command{
		Use:   "synth",
		Short: "Validate a manifest and emit Terraform JSON",
		RunE:  runSynth,
	}
	flags := synthCmd.Flags()
	flags.StringVarP(&synthCfg.input, "input", "i", "", "Input file (.yaml manifest or .tf/.hcl configuration)")
	flags.StringVarP(&synthCfg.out, "out", "o", "", "Output file (stdout when empty)")
	flags.StringVar(&synthCfg.configFile, "config", "tfsynth.toml", "Config file")
	flags.BoolVar(&synthCfg.compact, "compact", false, "Emit compact JSON")
	flags.BoolVarP(&synthCfg.verbose, "verbose", "v", false, "Verbose logging")
	flags.BoolVar(&synthCfg.jsonLog, "json-log", false, "JSON log encoding")
	cobra.CheckErr(synthCmd.MarkFlagRequired("input"))

	listCmd := &cobra.Command{
		Use:   "list-resource-types",
		Short: "List resource kinds with registered schemas",
		Run: func(cmd *cobra.Command, args []string) {
			reg := newRegistry()
			for _, kind := range reg.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
			}
		},
	}

	describeCmd := &cobra.Command{
		Use:   "describe <kind>",
		Short: "Show a resource kind's fields, invariants and outputs",
		Args:  cobra.ExactArgs(1),
		RunE:  runDescribe,
	}

	root.AddCommand(synthCmd, listCmd, describeCmd)
	return root
}

func newRegistry() *synth.Registry {
	reg := synth.NewRegistry()
	aws.RegisterInto(reg)
	return reg
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(synthCfg.configFile)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("out") && cfg.OutFile != "" {
		synthCfg.out = cfg.OutFile
	}
	if !cmd.Flags().Changed("compact") {
		synthCfg.compact = cfg.Compact
	}
	if !cmd.Flags().Changed("verbose") {
		synthCfg.verbose = cfg.Verbose
	}
	if !cmd.Flags().Changed("json-log") {
		synthCfg.jsonLog = cfg.JSONLog
	}

	log := logging.MustLogger(logging.LogOpts{Verbose: synthCfg.verbose, JSON: synthCfg.jsonLog})
	defer func() {
		// Stderr sync failures on exit are not actionable.
		_ = log.Sync()
	}()
	zap.ReplaceGlobals(log)

	s := synth.New(newRegistry(), synth.WithLogger(log))
	if err := applyInput(s, synthCfg.input); err != nil {
		return err
	}

	if order, err := s.DependencyOrder(); err != nil {
		log.Sugar().Warnf("dependency analysis: %v", err)
	} else {
		log.Sugar().Debugf("dependency order: %s", strings.Join(order, ", "))
	}

	var out []byte
	if synthCfg.compact {
		out, err = s.Serialize()
	} else {
		out, err = s.SerializeIndent()
	}
	if err != nil {
		return err
	}
	if synthCfg.out == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(synthCfg.out, out, 0644); err != nil {
		return err
	}
	log.Sugar().Infof("wrote %s", synthCfg.out)
	return nil
}

func applyInput(s *synth.Synthesizer, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		m, err := input.LoadManifest(path)
		if err != nil {
			return err
		}
		return m.Apply(s)
	case ".tf", ".hcl":
		c, err := input.LoadHCL(path)
		if err != nil {
			return err
		}
		return c.Apply(s)
	default:
		return fmt.Errorf("unsupported input extension %q (want .yaml, .yml, .tf or .hcl)", ext)
	}
}

func runDescribe(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	sch, ok := reg.Get(args[0])
	if !ok {
		return fmt.Errorf("no schema registered for %q", args[0])
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, sch.Kind)
	fmt.Fprintln(w, "fields:")
	for _, f := range sch.Fields {
		line := fmt.Sprintf("  %s (%s)", f.Name, f.Type)
		if f.Required {
			line += " required"
		}
		if f.Default != nil {
			line += fmt.Sprintf(" default=%v", f.Default)
		}
		fmt.Fprintln(w, line)
	}
	if len(sch.Invariants) > 0 {
		fmt.Fprintln(w, "invariants:")
		for _, inv := range sch.Invariants {
			fmt.Fprintf(w, "  %s\n", inv.Name)
		}
	}
	if len(sch.Outputs) > 0 {
		fmt.Fprintf(w, "outputs: id, arn, %s\n", strings.Join(sch.Outputs, ", "))
	}
	return nil
}
