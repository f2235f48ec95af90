// Package cli builds the clinvar-xml-tab command tree. Commands only parse
// and resolve configuration; the work is done by injected handlers.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"clinvartab/internal/config"
	"clinvartab/internal/errors"
	"clinvartab/internal/version"
)

// Name is the binary name.
const Name = "clinvar-xml-tab"

// DebugDefaultLimit is how many records debug dumps unless told otherwise.
const DebugDefaultLimit = 1

// Handler runs a command with its resolved configuration.
type Handler func(ctx context.Context, cfg config.Config) error

// Handlers are the actions behind the subcommands.
type Handlers struct {
	Convert Handler
	Debug   Handler
}

// Root is the top-level command. Ran reports whether a handler was
// reached, so callers can tell argument errors from run errors.
type Root struct {
	*cobra.Command
	ran bool
}

func (r *Root) Ran() bool { return r.ran }

// NewRoot builds the command tree. v receives the flags of whichever
// subcommand executes.
func NewRoot(v *viper.Viper, h Handlers) *Root {
	r := &Root{}
	root := &cobra.Command{
		Use:   Name,
		Short: "Convert ClinVar XML releases to TSV or VCF",
		Long: `Convert ClinVar full-release XML to tab-separated values or VCF.

The release is streamed one <ClinVarSet> at a time, so files far larger
than memory convert in constant space. Input may be gzip, bzip2 or xz
compressed; an output path ending in .gz is gzip-compressed.

Examples:
  clinvar-xml-tab convert -i ClinVarFullRelease.xml.gz -o clinvar.tsv
  clinvar-xml-tab convert --hg19 --format vcf -i release.xml.gz -o clinvar.vcf.gz
  zcat release.xml.gz | clinvar-xml-tab debug | less`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(Name + " version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.String(config.KeyConfig, "", "config file (toml, yaml or json)")
	pf.CountP(config.KeyVerbose, "v", "increase log verbosity (-v, -vv)")
	pf.BoolP(config.KeyQuiet, "q", false, "suppress the end-of-run summary")
	pf.Bool(config.KeyLogJSON, false, "log as JSON lines on stderr")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, errors.ErrUsage)
	})

	root.AddCommand(
		r.convertCommand(v, h.Convert),
		r.debugCommand(v, h.Debug),
		versionCommand(),
	)
	r.Command = root
	return r
}

func ioFlags(fs *pflag.FlagSet) {
	fs.StringP(config.KeyInput, "i", "", "input XML file (stdin when omitted or -)")
	fs.StringP(config.KeyOutput, "o", "", "output file (stdout when omitted or -; .gz compresses)")
}

func (r *Root) convertCommand(v *viper.Viper, h Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert records to TSV or VCF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.run(cmd, v, h)
		},
	}
	fs := cmd.Flags()
	ioFlags(fs)
	fs.StringP(config.KeyFormat, "f", "tsv", "output format: tsv | vcf")
	fs.Bool(config.KeyHG19, false, "use GRCh37 (hg19) coordinates")
	fs.Bool(config.KeyHG38, false, "use GRCh38 (hg38) coordinates [default]")
	fs.String(config.KeyVCFHeader, "", "file whose content replaces the default VCF header")
	fs.Bool(config.KeyChrPrefix, false, "write chr-prefixed chromosome names (chr7, chrMT) in TSV output; TSV keeps the source names (7, MT) by default, VCF always uses contig names (chrM)")
	fs.Int(config.KeyLimit, 0, "stop after N records (0 = all)")
	cmd.MarkFlagsMutuallyExclusive(config.KeyHG19, config.KeyHG38)
	return cmd
}

func (r *Root) debugCommand(v *viper.Viper, h Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Print every element of the first records as path - text - attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v.SetDefault(config.KeyLimit, DebugDefaultLimit)
			return r.run(cmd, v, h)
		},
	}
	ioFlags(cmd.Flags())
	cmd.Flags().Int(config.KeyLimit, DebugDefaultLimit, "number of records to dump (0 = all)")
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", Name, version.Version)
			return err
		},
	}
}

func (r *Root) run(cmd *cobra.Command, v *viper.Viper, h Handler) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if h == nil {
		return errors.AssertionFailedf("no handler for %s", cmd.Name())
	}
	r.ran = true
	return h(cmd.Context(), cfg)
}
