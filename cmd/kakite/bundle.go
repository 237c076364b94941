package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/kakite/internal/config"
	"github.com/verte-zerg/kakite/internal/refdata"
	"github.com/verte-zerg/kakite/internal/stroke"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Manage reference bundles",
	}
	var force bool
	add := &cobra.Command{
		Use:   "add <file>",
		Short: "Validate and install a reference bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts := fileCfg.Grading.StrokeOptions(stroke.DefaultOptions())
			dest, n, err := installBundle(args[0], config.DefaultBundleDir(), opts, force)
			if err != nil {
				return err
			}
			logErrf("Installed %d characters to %s\n", n, dest)
			return nil
		},
	}
	add.Flags().BoolVar(&force, "force", false, "overwrite an installed bundle with the same name")
	cmd.AddCommand(add)
	return cmd
}

// installBundle validates src and copies it into dir through a temp file so
// a partial write never becomes visible to the loader.
func installBundle(src, dir string, opts stroke.Options, force bool) (string, int, error) {
	chars, err := refdata.LoadFile(src, opts)
	if err != nil {
		return "", 0, fmt.Errorf("invalid bundle: %w", err)
	}
	name := filepath.Base(src)
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	dest := filepath.Join(dir, name)
	if !force {
		if _, err := os.Stat(dest); err == nil {
			return "", 0, fmt.Errorf("bundle already installed: %s (use --force to overwrite)", dest)
		} else if !os.IsNotExist(err) {
			return "", 0, fmt.Errorf("failed to stat bundle: %w", err)
		}
	}
	if err := copyAtomic(src, dest); err != nil {
		return "", 0, fmt.Errorf("failed to install %s: %w", dest, err)
	}
	return dest, len(chars), nil
}

func copyAtomic(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create bundle dir: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			_ = cerr
		}
	}()

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "bundle-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp bundle: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		return fmt.Errorf("failed to copy bundle: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close bundle: %w", err)
	}
	return os.Rename(tmpPath, dest)
}
