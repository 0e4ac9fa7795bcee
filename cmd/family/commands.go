package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	family "github.com/automainint/go-family"
	"github.com/automainint/go-family/internal/config"
	"github.com/automainint/go-family/internal/docio"
)

// stdio names standard input or output in place of a path.
const stdio = "-"

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String(config.KeyTo, "auto", "output format (auto, binary, text, cbor); auto follows the output file extension and defaults to binary")
	cmd.Flags().Int(config.KeyIndent, 2, "indent of the text form, 0 writes a single line")
	cmd.Flags().Bool(config.KeyCompress, false, "compress the output with zstd")
}

func (a *app) newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a document to another form",
		Long:  `Convert reads IN, which may be binary, text or CBOR and may be zstd compressed, and writes it to OUT in the form given by --to. Use - for standard input or output.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.convert(args[0], args[1], nil)
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().Bool(config.KeyPack, false, "replace dictionary key names by their index")
	cmd.Flags().Bool(config.KeyUnpack, false, "replace dictionary key indices by their name")
	return cmd
}

func (a *app) newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack IN OUT",
		Short: "Replace dictionary key names by their index",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.convert(args[0], args[1], family.Pack)
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func (a *app) newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack IN OUT",
		Short: "Replace dictionary key indices by their name",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.convert(args[0], args[1], family.Unpack)
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func (a *app) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump IN",
		Short: "Print a document in the text form",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := a.read(args[0])
			if err != nil {
				return err
			}
			return docio.Store(a.stdout, v, docio.FormatText, false, a.cfg.EncodeOptions()...)
		},
	}
	cmd.Flags().Int(config.KeyIndent, 2, "indent of the text form, 0 writes a single line")
	return cmd
}

func (a *app) newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the key dictionary",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for i, name := range family.Keys() {
				fmt.Fprintf(w, "0x%x\t%s\n", i, name)
			}
			return w.Flush()
		},
	}
}

// convert reads in, applies rewrite if set and writes the result to out.
func (a *app) convert(in, out string, rewrite func(family.Value) family.Value) error {
	v, err := a.read(in)
	if err != nil {
		return err
	}
	if rewrite != nil {
		v = rewrite(v)
	}
	return a.write(out, v)
}

func (a *app) read(path string) (family.Value, error) {
	format := a.cfg.From
	if format == docio.FormatAuto {
		format = docio.FormatFromPath(path)
	}
	log.Debugf("reading %s as %s", path, format)

	var (
		v   family.Value
		err error
	)
	if path == stdio {
		v, err = docio.Load(a.stdin, format, a.cfg.DecodeOptions()...)
	} else {
		v, err = docio.ReadFile(path, format, a.cfg.DecodeOptions()...)
	}
	if err != nil {
		log.Errorf("reading %s: %s", path, err)
		return family.Value{}, err
	}
	return v, nil
}

func (a *app) write(path string, v family.Value) error {
	format := a.cfg.To
	if format == docio.FormatAuto {
		format = docio.FormatFromPath(path)
	}
	if format == docio.FormatAuto {
		format = docio.FormatBinary
	}

	var err error
	if path == stdio {
		err = docio.Store(a.stdout, v, format, a.cfg.Compress, a.cfg.EncodeOptions()...)
	} else {
		err = docio.WriteFile(path, v, format, a.cfg.Compress, a.cfg.EncodeOptions()...)
	}
	if err != nil {
		log.Errorf("writing %s: %s", path, err)
		return err
	}
	log.Infof("wrote %s as %s", path, format)
	return nil
}
