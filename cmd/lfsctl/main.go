// lfsctl manipulates littlefs image files: format a fresh image, list
// and stat entries, move data in and out.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/flashkit/littlefs"
	"github.com/flashkit/littlefs/disk"
	"github.com/flashkit/littlefs/minlfs"
)

func loadGeometry(cmd *cli.Command) (littlefs.Geometry, error) {
	geo := littlefs.DefaultGeometry()
	path := cmd.String("config")
	if path == "" {
		return geo, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return geo, fmt.Errorf("failed to read geometry file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &geo); err != nil {
		return geo, fmt.Errorf("failed to parse geometry file %s: %w", path, err)
	}
	if err := geo.Validate(); err != nil {
		return geo, fmt.Errorf("geometry validation failed: %w", err)
	}
	return geo, nil
}

func openImage(cmd *cli.Command) (*littlefs.FS, littlefs.Geometry, error) {
	geo, err := loadGeometry(cmd)
	if err != nil {
		return nil, geo, err
	}
	storage, err := disk.OpenFile(cmd.String("image"), geo.Size())
	if err != nil {
		return nil, geo, err
	}
	fs, err := littlefs.New(storage, minlfs.New(), geo)
	if err != nil {
		storage.Close()
		return nil, geo, err
	}
	return fs, geo, nil
}

// withMounted runs fn against a mounted image, unmounting afterwards.
func withMounted(cmd *cli.Command, fn func(*littlefs.FS) error) error {
	fs, _, err := openImage(cmd)
	if err != nil {
		return err
	}
	if err := fs.Mount(); err != nil {
		return err
	}
	if err := fn(fs); err != nil {
		fs.Unmount()
		return err
	}
	return fs.Unmount()
}

func cmdFormat(ctx context.Context, cmd *cli.Command) error {
	fs, geo, err := openImage(cmd)
	if err != nil {
		return err
	}
	if err := fs.Format(); err != nil {
		return err
	}
	// format leaves the image unmounted; mount/unmount releases it
	if err := fs.Mount(); err != nil {
		return err
	}
	if err := fs.Unmount(); err != nil {
		return err
	}
	fmt.Printf("formatted %s: %d blocks of %d bytes\n",
		cmd.String("image"), geo.BlockCount, geo.BlockSize)
	return nil
}

func cmdLs(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().Get(0)
	if path == "" {
		path = "/"
	}
	return withMounted(cmd, func(fs *littlefs.FS) error {
		dir, err := fs.OpenDir(path)
		if err != nil {
			return err
		}
		for {
			ent, err := dir.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				dir.Close()
				return err
			}
			fmt.Printf("%-4s %8d %s\n", ent.Type, ent.Size, ent.Name)
		}
		return dir.Close()
	})
}

func cmdStat(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().Get(0)
	if path == "" {
		return errors.New("stat: missing path")
	}
	return withMounted(cmd, func(fs *littlefs.FS) error {
		ent, err := fs.Stat(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s, %d bytes\n", path, ent.Type, ent.Size)
		return nil
	})
}

func cmdMkdir(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().Get(0)
	if path == "" {
		return errors.New("mkdir: missing path")
	}
	return withMounted(cmd, func(fs *littlefs.FS) error {
		return fs.Mkdir(path)
	})
}

func cmdRm(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().Get(0)
	if path == "" {
		return errors.New("rm: missing path")
	}
	return withMounted(cmd, func(fs *littlefs.FS) error {
		return fs.Remove(path)
	})
}

func cmdMv(ctx context.Context, cmd *cli.Command) error {
	oldpath, newpath := cmd.Args().Get(0), cmd.Args().Get(1)
	if oldpath == "" || newpath == "" {
		return errors.New("mv: need source and destination paths")
	}
	return withMounted(cmd, func(fs *littlefs.FS) error {
		return fs.Rename(oldpath, newpath)
	})
}

func cmdGet(ctx context.Context, cmd *cli.Command) error {
	src, dst := cmd.Args().Get(0), cmd.Args().Get(1)
	if src == "" {
		return errors.New("get: missing source path")
	}
	return withMounted(cmd, func(fs *littlefs.FS) error {
		f, err := fs.OpenFile(src, littlefs.ReadOnly)
		if err != nil {
			return err
		}
		out := io.Writer(os.Stdout)
		if dst != "" {
			h, err := os.Create(dst)
			if err != nil {
				f.Close()
				return err
			}
			defer h.Close()
			out = h
		}
		if _, err := io.Copy(out, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

func cmdPut(ctx context.Context, cmd *cli.Command) error {
	src, dst := cmd.Args().Get(0), cmd.Args().Get(1)
	if src == "" || dst == "" {
		return errors.New("put: need host source and image destination paths")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return withMounted(cmd, func(fs *littlefs.FS) error {
		f, err := fs.OpenFile(dst, littlefs.WriteOnly|littlefs.Create|littlefs.Truncate)
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

func main() {
	cmd := &cli.Command{
		Name:  "lfsctl",
		Usage: "Inspect and manipulate littlefs image files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "image",
				Aliases:  []string{"i"},
				Usage:    "Path to the filesystem image",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML geometry file (defaults to 32x4096)",
				Sources: cli.EnvVars("LFSCTL_GEOMETRY"),
			},
		},
		Commands: []*cli.Command{
			{Name: "format", Usage: "Write a fresh filesystem", Action: cmdFormat},
			{Name: "ls", Usage: "List a directory", ArgsUsage: "[path]", Action: cmdLs},
			{Name: "stat", Usage: "Describe an entry", ArgsUsage: "<path>", Action: cmdStat},
			{Name: "mkdir", Usage: "Create a directory", ArgsUsage: "<path>", Action: cmdMkdir},
			{Name: "rm", Usage: "Remove a file or empty directory", ArgsUsage: "<path>", Action: cmdRm},
			{Name: "mv", Usage: "Move or rename an entry", ArgsUsage: "<old> <new>", Action: cmdMv},
			{Name: "get", Usage: "Copy a file out of the image", ArgsUsage: "<src> [dst]", Action: cmdGet},
			{Name: "put", Usage: "Copy a host file into the image", ArgsUsage: "<src> <dst>", Action: cmdPut},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("lfsctl error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
