package main

import (
	"errors"
	"fmt"
	"os"

	"diorama/internal/engine2D"
	"diorama/internal/utils"
	"diorama/internal/wallpaper"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "diorama"
	app.Description = "A depth-layered parallax wallpaper renderer"
	app.Usage = "diorama [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "scene",
			Usage: "Path to a scene JSON file (default: the built-in diorama)",
		},
		cli.StringFlag{
			Name:  "assets",
			Usage: "Directory holding the layer images",
		},
		cli.StringFlag{
			Name:  "pkg",
			Usage: "Scene package to unpack before loading",
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "Window width in pixels (0 = scene value)",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "Window height in pixels (0 = scene value)",
		},
		cli.StringFlag{
			Name:  "strategy",
			Usage: "Layer render strategy: transform or shader",
		},
		cli.Float64Flag{
			Name:  "damping",
			Usage: "Damping factor inside (0, 1) (0 = scene value)",
		},
		cli.BoolFlag{
			Name:  "refresh-independent",
			Usage: "Scale damping by frame time so motion speed ignores the refresh rate",
		},
		cli.BoolFlag{
			Name:  "no-effects",
			Usage: "Disable depth of field and vignette",
		},
		cli.BoolFlag{
			Name:  "global-pointer",
			Usage: "Read the X11 pointer instead of window mouse events (wallpaper mode)",
		},
		cli.IntFlag{
			Name:  "fps",
			Usage: "Target frames per second",
			Value: 60,
		},
		cli.IntFlag{
			Name:  "max-texture",
			Usage: "Scale layer images down to this many pixels per side (0 = off)",
			Value: 4096,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable verbose debug logging and the FPS counter",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable coloured log output",
		},
		cli.BoolFlag{
			Name:  "raylib-info",
			Usage: "Show raylib info messages at info level",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		utils.Error("%v", err)
		os.Exit(1)
	}
}

func configureLogging(c *cli.Context) error {
	level, err := utils.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	utils.CurrentLevel = level
	utils.SetDebug(c.Bool("debug"))
	utils.NoColor = c.Bool("no-color")
	utils.ShowRaylibInfo = c.Bool("raylib-info")
	return nil
}

func run(c *cli.Context) error {
	if err := configureLogging(c); err != nil {
		return err
	}

	utils.Info("--- Diorama Start ---")

	if dir := c.String("assets"); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			utils.Warn("Assets directory NOT FOUND: %s", dir)
		}
		utils.AssetsDir = dir
	}

	scenePath := c.String("scene")
	if pkg := c.String("pkg"); pkg != "" {
		if err := unpackScene(pkg); err != nil {
			return err
		}
		if scenePath == "" {
			scenePath = findPackagedScene()
		}
	}

	scene, err := wallpaper.LoadScene(scenePath)
	if err != nil {
		return err
	}
	err = scene.Apply(wallpaper.Overrides{
		Width:              c.Int("width"),
		Height:             c.Int("height"),
		Strategy:           c.String("strategy"),
		Damping:            c.Float64("damping"),
		RefreshIndependent: c.Bool("refresh-independent"),
		NoEffects:          c.Bool("no-effects"),
	})
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	utils.Info("Scene loaded: %d layers found", len(scene.Layers))

	window, err := NewWindow(scene, WindowOptions{
		Title:         "Diorama",
		Name:          sceneName(scenePath),
		FPS:           c.Int("fps"),
		MaxTexture:    c.Int("max-texture"),
		GlobalPointer: c.Bool("global-pointer"),
	})
	if errors.Is(err, engine2D.ErrBackendUnavailable) {
		fmt.Fprintln(os.Stderr, "diorama: no OpenGL 3.3 window could be created; a static wallpaper is needed on this system.")
		return err
	}
	if err != nil {
		return err
	}

	utils.Info("Starting render loop...")
	return window.Run()
}
