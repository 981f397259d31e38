package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/urfave/cli/v3"

	"github.com/milk9111/gemstone/animation"
	"github.com/milk9111/gemstone/editor"
	"github.com/milk9111/gemstone/render"
)

func errMissingArg(name string) error {
	return fmt.Errorf("animtool: missing %s argument", name)
}

func outDir(cmd *cli.Command) string {
	if out := cmd.String("out"); out != "" {
		return out
	}
	return filepath.Dir(cmd.Args().First())
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "output directory (defaults to the manifest's directory)",
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print frames, durations and asset sizes of an animation",
		ArgsUsage: "MANIFEST",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, a, err := loadAnimation(cmd)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			fmt.Fprintf(w, "%s: %d frames, %dms total, loop=%v\n", a.Name, a.Len(), a.TotalDuration(), a.Loop)
			for i, f := range a.Frames() {
				fw, fh := f.Size()
				fmt.Fprintf(w, "  %3d  %dx%d  %5dms  pivot=(%d,%d)\n", i, fw, fh, f.Duration(), f.Pivot.X, f.Pivot.Y)
			}

			path := cmd.Args().First()
			man, err := animation.ReadManifest(path)
			if err != nil {
				return err
			}
			dir := filepath.Dir(path)
			assets := []string{filepath.Base(path)}
			seen := map[string]bool{}
			if man.Spritesheet != "" {
				assets = append(assets, man.Spritesheet)
				seen[man.Spritesheet] = true
			}
			for _, fr := range man.Frames {
				if fr.File == "" || seen[fr.File] {
					continue
				}
				if man.Spritesheet != "" && fr.Rect != nil {
					continue
				}
				seen[fr.File] = true
				assets = append(assets, fr.File)
			}
			var total uint64
			for _, name := range assets {
				st, err := os.Stat(filepath.Join(dir, name))
				if err != nil {
					return err
				}
				total += uint64(st.Size())
				fmt.Fprintf(w, "  %-32s %s\n", name, humanize.Bytes(uint64(st.Size())))
			}
			fmt.Fprintf(w, "  %-32s %s\n", "total", humanize.Bytes(total))
			return nil
		},
	}
}

func unpackCommand() *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "write one image per frame plus a manifest",
		ArgsUsage: "MANIFEST",
		Flags:     []cli.Flag{outFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m, a, err := loadAnimation(cmd)
			if err != nil {
				return err
			}
			return m.Save(a.Name, outDir(cmd))
		},
	}
}

func packCommand() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "write all frames to one sprite sheet plus a manifest",
		ArgsUsage: "MANIFEST",
		Flags:     []cli.Flag{outFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m, a, err := loadAnimation(cmd)
			if err != nil {
				return err
			}
			return m.SaveSheet(a.Name, outDir(cmd))
		},
	}
}

func sliceCommand() *cli.Command {
	return &cli.Command{
		Name:      "slice",
		Usage:     "build an animation from a grid sprite sheet",
		ArgsUsage: "SHEET",
		Flags: []cli.Flag{
			outFlag(),
			&cli.StringFlag{Name: "name", Usage: "animation name", Required: true},
			&cli.IntFlag{Name: "frame-w", Usage: "cell width", Required: true},
			&cli.IntFlag{Name: "frame-h", Usage: "cell height", Required: true},
			&cli.IntFlag{Name: "start", Usage: "first cell"},
			&cli.IntFlag{Name: "count", Usage: "number of cells (0 reads the rest)"},
			&cli.IntFlag{Name: "duration", Value: animation.DefaultDuration, Usage: "frame duration in ms"},
			&cli.BoolFlag{Name: "loop", Value: true, Usage: "loop playback"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path := cmd.Args().First()
			if path == "" {
				return errMissingArg("SHEET")
			}
			codec := cfg.Codec()
			sheet, err := codec.Load(path)
			if err != nil {
				return err
			}
			rects, err := render.SliceGrid(sheet, int(cmd.Int("frame-w")), int(cmd.Int("frame-h")), int(cmd.Int("start")), int(cmd.Int("count")))
			if err != nil {
				return err
			}
			a, err := animation.NewAnimation(cmd.String("name"), cmd.Bool("loop"))
			if err != nil {
				return err
			}
			for _, r := range rects {
				img, err := render.Crop(sheet, r)
				if err != nil {
					return err
				}
				f, err := animation.NewFrame(img, int(cmd.Int("duration")), image.Point{})
				if err != nil {
					return err
				}
				a.AddFrame(f)
			}
			m := animation.NewManager(codec)
			if err := m.Register(a); err != nil {
				return err
			}
			return m.Save(a.Name, outDir(cmd))
		},
	}
}

func scaleCommand() *cli.Command {
	return &cli.Command{
		Name:      "scale",
		Usage:     "upscale every frame by an integer factor",
		ArgsUsage: "MANIFEST",
		Flags: []cli.Flag{
			outFlag(),
			&cli.IntFlag{Name: "factor", Value: 2, Usage: "scale factor"},
			&cli.BoolFlag{Name: "sheet", Usage: "write a sprite sheet instead of frame files"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m, a, err := loadAnimation(cmd)
			if err != nil {
				return err
			}
			k := int(cmd.Int("factor"))
			if k < 1 {
				return fmt.Errorf("animtool: scale: factor %d: %w", k, animation.ErrInvalidArgument)
			}
			scaled, err := animation.NewAnimation(a.Name, a.Loop)
			if err != nil {
				return err
			}
			for _, f := range a.Frames() {
				sf, err := animation.NewFrame(render.Scale(f.Image, k), f.Duration(), f.Pivot.Mul(k))
				if err != nil {
					return err
				}
				scaled.AddFrame(sf)
			}
			if err := m.Register(scaled); err != nil {
				return err
			}
			if cmd.Bool("sheet") {
				return m.SaveSheet(scaled.Name, outDir(cmd))
			}
			return m.Save(scaled.Name, outDir(cmd))
		},
	}
}

func outlineCommand() *cli.Command {
	return &cli.Command{
		Name:      "outline",
		Usage:     "draw an outline around the opaque pixels of every frame",
		ArgsUsage: "MANIFEST",
		Flags: []cli.Flag{
			outFlag(),
			&cli.IntFlag{Name: "thickness", Value: 1, Usage: "outline thickness in pixels"},
			&cli.StringFlag{Name: "color", Value: "#ff0000", Usage: "outline colour as #rrggbb"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m, a, err := loadAnimation(cmd)
			if err != nil {
				return err
			}
			cf, err := colorful.Hex(cmd.String("color"))
			if err != nil {
				return fmt.Errorf("animtool: outline: %w", err)
			}
			r, g, b := cf.RGB255()
			c := color.NRGBA{R: r, G: g, B: b, A: 0xff}
			thickness := int(cmd.Int("thickness"))
			for _, f := range a.Frames() {
				f.Image = render.Outline(f.Image, thickness, c)
			}
			return m.Save(a.Name, outDir(cmd))
		},
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "create an animation of blank frames",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "output directory"},
			&cli.IntFlag{Name: "frames", Value: 1, Usage: "number of frames"},
			&cli.IntFlag{Name: "width", Usage: "frame width (config default when 0)"},
			&cli.IntFlag{Name: "height", Usage: "frame height (config default when 0)"},
			&cli.IntFlag{Name: "duration", Usage: "frame duration in ms (config default when 0)"},
			&cli.BoolFlag{Name: "loop", Value: true, Usage: "loop playback"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			name := cmd.Args().First()
			if name == "" {
				return errMissingArg("NAME")
			}
			a, err := animation.NewAnimation(name, cmd.Bool("loop"))
			if err != nil {
				return err
			}
			opts := editor.Options{
				MaxUndo:         cfg.Editor.MaxUndo,
				FrameW:          cfg.Editor.FrameW,
				FrameH:          cfg.Editor.FrameH,
				DefaultDuration: cfg.Editor.DefaultDuration,
			}
			if w := int(cmd.Int("width")); w > 0 {
				opts.FrameW = w
			}
			if h := int(cmd.Int("height")); h > 0 {
				opts.FrameH = h
			}
			if d := int(cmd.Int("duration")); d > 0 {
				opts.DefaultDuration = d
			}
			s, err := editor.NewSession(a, opts)
			if err != nil {
				return err
			}
			for i := 0; i < int(cmd.Int("frames")); i++ {
				if err := s.AddBlankFrame(); err != nil {
					return err
				}
			}
			m := animation.NewManager(cfg.Codec())
			if err := m.Register(a); err != nil {
				return err
			}
			return m.Save(name, cmd.String("out"))
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:      "simulate",
		Usage:     "print the playback timeline of an animation",
		ArgsUsage: "MANIFEST",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "dt", Value: 16, Usage: "milliseconds per tick"},
			&cli.IntFlag{Name: "ticks", Value: 30, Usage: "number of ticks"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, a, err := loadAnimation(cmd)
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			dt := int(cmd.Int("dt"))
			inst := animation.NewInstance(a)
			inst.OnFrame(func(_ *animation.Instance, frame int) {
				fmt.Fprintf(w, "    -> frame %d\n", frame)
			})
			inst.OnFinish(func(_ *animation.Instance) {
				fmt.Fprintln(w, "    -> finished")
			})
			t := 0
			for i := 0; i < int(cmd.Int("ticks")); i++ {
				inst.Advance(dt)
				t += dt
				fmt.Fprintf(w, "t=%6dms  frame=%d  elapsed=%d  %s\n", t, inst.Index(), inst.Elapsed(), inst.State())
			}
			return nil
		},
	}
}

func copyFrameCommand() *cli.Command {
	return &cli.Command{
		Name:      "copy-frame",
		Usage:     "copy one frame image to the system clipboard",
		ArgsUsage: "MANIFEST",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "index", Usage: "frame index"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			_, a, err := loadAnimation(cmd)
			if err != nil {
				return err
			}
			s, err := editor.NewSession(a, editor.Options{DefaultDuration: cfg.Editor.DefaultDuration})
			if err != nil {
				return err
			}
			i := int(cmd.Int("index"))
			if i < 0 || i >= a.Len() {
				return fmt.Errorf("animtool: copy-frame: index %d: %w", i, animation.ErrIndexOutOfRange)
			}
			s.Select(i)
			return s.CopySelected(editor.SystemClipboard{})
		},
	}
}

func pasteFrameCommand() *cli.Command {
	return &cli.Command{
		Name:      "paste-frame",
		Usage:     "insert the clipboard image as a new frame and save",
		ArgsUsage: "MANIFEST",
		Flags: []cli.Flag{
			outFlag(),
			&cli.IntFlag{Name: "after", Value: -1, Usage: "insert after this frame (last when negative)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			m, a, err := loadAnimation(cmd)
			if err != nil {
				return err
			}
			s, err := editor.NewSession(a, editor.Options{DefaultDuration: cfg.Editor.DefaultDuration})
			if err != nil {
				return err
			}
			after := int(cmd.Int("after"))
			if after < 0 {
				after = a.Len() - 1
			}
			s.Select(after)
			if err := s.Paste(editor.SystemClipboard{}); err != nil {
				return err
			}
			return m.Save(a.Name, outDir(cmd))
		},
	}
}
