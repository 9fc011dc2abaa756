// softraster - software triangle rasterizer
// Renders OBJ and GLB meshes to PNG with flat or Gouraud shading, a
// z-buffer and nearest-neighbor texturing.
//
// Previews:
//
//	-term       Show the image in the terminal (any key quits)
//	-window     Open a window; arrows orbit, space toggles spin, Esc quits
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/models"
	"github.com/taigrr/softraster/pkg/render"
)

var (
	outputPath  = flag.String("o", "output.png", "Output PNG path (printf pattern with -frames)")
	width       = flag.Int("width", 800, "Image width in pixels")
	height      = flag.Int("height", 800, "Image height in pixels")
	shaderName  = flag.String("shader", "gouraud", "Shader: flat or gouraud")
	texturePath = flag.String("texture", "", "Path to texture image (PNG/JPG/BMP/TIFF/WebP)")
	eyeFlag     = flag.String("eye", "1,1,3", "Camera position (X,Y,Z)")
	centerFlag  = flag.String("center", "0,0,0", "Point the camera looks at (X,Y,Z)")
	upFlag      = flag.String("up", "0,1,0", "Camera up vector (X,Y,Z)")
	lightFlag   = flag.String("light", "1,-1,1", "Light direction (X,Y,Z)")
	bgColor     = flag.String("bg", "0,0,0", "Background color (R,G,B)")
	wireframe   = flag.Bool("wireframe", false, "Overlay triangle edges")
	frames      = flag.Int("frames", 0, "Render a turntable sequence of N frames")
	termPreview = flag.Bool("term", false, "Show the result in the terminal")
	winPreview  = flag.Bool("window", false, "Open an interactive preview window")
	verbose     = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softraster - software triangle rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softraster [options] <model.obj|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(modelPath string) error {
	log := setupLogging(*verbose)

	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	mesh, err := loadMesh(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	log.Info("loaded model",
		slog.String("file", filepath.Base(modelPath)),
		slog.Int("vertices", mesh.VertexCount()),
		slog.Int("triangles", mesh.TriangleCount()))

	tex, err := chooseTexture(mesh, *texturePath)
	if err != nil {
		return err
	}

	sc := &scene{
		mesh:      mesh,
		tex:       tex,
		width:     *width,
		height:    *height,
		shader:    *shaderName,
		center:    cfg.center,
		up:        cfg.up,
		light:     cfg.light,
		bg:        cfg.bg,
		wireframe: *wireframe,
	}

	if *winPreview {
		return runWindow(sc, cfg.eye)
	}

	var last *render.Framebuffer
	if *frames > 0 {
		last, err = renderTurntable(sc, cfg.eye, *frames, *outputPath)
	} else {
		last, err = renderStill(sc, cfg.eye, *outputPath)
	}
	if err != nil {
		return err
	}

	if *termPreview {
		return showTerminal(last)
	}
	return nil
}

func setupLogging(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	render.SetLogger(log)
	models.SetLogger(log)
	return log
}

// config holds the parsed vector and color flags.
type config struct {
	eye, center, up, light math3d.Vec3
	bg                     render.Color
}

func parseConfig() (config, error) {
	var cfg config
	var err error

	if *width <= 0 || *height <= 0 {
		return cfg, fmt.Errorf("invalid size %dx%d", *width, *height)
	}
	switch *shaderName {
	case shaderFlat, shaderGouraud:
	default:
		return cfg, fmt.Errorf("unknown shader %q (use flat or gouraud)", *shaderName)
	}

	vecs := []struct {
		name string
		val  string
		dst  *math3d.Vec3
	}{
		{"eye", *eyeFlag, &cfg.eye},
		{"center", *centerFlag, &cfg.center},
		{"up", *upFlag, &cfg.up},
		{"light", *lightFlag, &cfg.light},
	}
	for _, v := range vecs {
		if *v.dst, err = parseVec(v.val); err != nil {
			return cfg, fmt.Errorf("-%s: %w", v.name, err)
		}
	}
	if cfg.eye == cfg.center {
		return cfg, errors.New("-eye and -center must differ")
	}

	if cfg.bg, err = parseColor(*bgColor); err != nil {
		return cfg, fmt.Errorf("-bg: %w", err)
	}
	return cfg, nil
}

// parseVec parses "x,y,z".
func parseVec(s string) (math3d.Vec3, error) {
	var v math3d.Vec3
	if _, err := fmt.Sscanf(s, "%g,%g,%g", &v.X, &v.Y, &v.Z); err != nil {
		return v, fmt.Errorf("parse vector %q: %w", s, err)
	}
	return v, nil
}

// parseColor parses "r,g,b" with 8-bit channels.
func parseColor(s string) (render.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return render.RGB(r, g, b), nil
}

func loadMesh(path string) (*models.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return models.LoadOBJ(path)
	case ".glb", ".gltf":
		mesh, err := models.LoadGLB(path)
		if err != nil {
			return nil, err
		}
		mesh.Normalize()
		return mesh, nil
	default:
		return nil, fmt.Errorf("%w format: %q (use .obj or .glb)", models.ErrUnsupported, ext)
	}
}

// chooseTexture picks, in order: the -texture file, the mesh's embedded
// image, its first material's base color, white.
func chooseTexture(mesh *models.Mesh, path string) (render.Sampler, error) {
	if path != "" {
		tex, err := render.LoadTexture(path)
		if err != nil {
			return nil, err
		}
		return tex, nil
	}
	if mesh.Texture != nil {
		return render.TextureFromImage(mesh.Texture), nil
	}
	if mat := mesh.GetMaterial(0); mat != nil {
		return render.NewSolidTexture(baseColor(mat.BaseColor)), nil
	}
	return render.NewSolidTexture(render.ColorWhite), nil
}

func baseColor(c [4]float64) render.Color {
	ch := func(f float64) uint8 {
		return uint8(max(0, min(1, f)) * 255)
	}
	return render.RGB(ch(c[0]), ch(c[1]), ch(c[2]))
}
