// Command gobuffer buffers geometries read as WKT or GeoJSON.
//
// WKT input holds one geometry per line, and each result is written on its
// own line. GeoJSON input may be a FeatureCollection, a Feature or a bare
// geometry; the output is a FeatureCollection whose features keep their
// properties, and a feature's numeric buffer_distance property overrides the
// distance flag.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/osuushi/buffer/advanced"
	"github.com/osuushi/buffer/dbg"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Size in pixels of the larger side of drawings
const drawingSize = 800

type options struct {
	distance  float64
	params    advanced.Params
	format    string
	inputPath string
	pngPath   string
	imgcat    bool
	verbose   bool
	stdout    io.Writer
	stderr    io.Writer
	inputs    []geom.T
	results   []geom.T
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "gobuffer: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (*options, error) {
	app := kingpin.New("gobuffer", "Buffer geometries by a distance.")
	app.Terminate(nil)
	app.UsageWriter(io.Discard)

	opts := &options{}
	var (
		overrides    []func(*advanced.Params) error
		configPath   string
		capName      string
		joinName     string
		quadrantSegs int
		mitreLimit   float64
		simplify     float64
		singleSided  bool
	)
	override := func(apply func(*advanced.Params) error) kingpin.Action {
		return func(*kingpin.ParseContext) error {
			overrides = append(overrides, apply)
			return nil
		}
	}

	app.Flag("distance", "Buffer distance. Negative distances erode areas.").Short('d').Required().Float64Var(&opts.distance)
	app.Flag("quadrant-segments", "Segments approximating a quarter circle.").Short('q').
		Action(override(func(p *advanced.Params) error { p.QuadrantSegments = quadrantSegs; return nil })).
		IntVar(&quadrantSegs)
	app.Flag("cap", "End cap style: round, flat or square.").
		Action(override(func(p *advanced.Params) (err error) { p.EndCapStyle, err = advanced.ParseCapStyle(capName); return })).
		StringVar(&capName)
	app.Flag("join", "Join style: round, mitre or bevel.").
		Action(override(func(p *advanced.Params) (err error) { p.JoinStyle, err = advanced.ParseJoinStyle(joinName); return })).
		StringVar(&joinName)
	app.Flag("mitre-limit", "Longest mitre, as a multiple of the distance.").
		Action(override(func(p *advanced.Params) error { p.MitreLimit = mitreLimit; return nil })).
		Float64Var(&mitreLimit)
	app.Flag("simplify", "Input simplification tolerance, as a fraction of the distance.").
		Action(override(func(p *advanced.Params) error { p.SimplifyFactor = simplify; return nil })).
		Float64Var(&simplify)
	app.Flag("single-sided", "Buffer lines on one side only, chosen by the sign of the distance.").
		Action(override(func(p *advanced.Params) error { p.SingleSided = singleSided; return nil })).
		BoolVar(&singleSided)
	app.Flag("config", "YAML file of buffer parameters, applied before the other flags.").ExistingFileVar(&configPath)
	app.Flag("format", "Input and output format.").Default("wkt").EnumVar(&opts.format, "wkt", "geojson")
	app.Flag("png", "Also draw the input and result to this PNG file.").StringVar(&opts.pngPath)
	app.Flag("imgcat", "Show the drawing in the terminal (iTerm only).").BoolVar(&opts.imgcat)
	app.Flag("verbose", "Log pipeline details to stderr.").Short('v').BoolVar(&opts.verbose)
	app.Arg("input", "Input file. Defaults to stdin.").StringVar(&opts.inputPath)

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}

	opts.params = advanced.DefaultParams()
	if configPath != "" {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer file.Close()
		if opts.params, err = advanced.LoadParams(file); err != nil {
			return nil, errors.Wrapf(err, "loading %s", configPath)
		}
	}
	for _, apply := range overrides {
		if err := apply(&opts.params); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	opts.stdout, opts.stderr = stdout, stderr

	if opts.verbose {
		advanced.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer advanced.SetLogger(nil)
	}

	op, err := advanced.NewOp(opts.params)
	if err != nil {
		return err
	}

	input := stdin
	if opts.inputPath != "" && opts.inputPath != "-" {
		file, err := os.Open(opts.inputPath)
		if err != nil {
			return errors.WithStack(err)
		}
		defer file.Close()
		input = file
	}

	switch opts.format {
	case "geojson":
		err = opts.bufferGeoJSON(ctx, op, input)
	default:
		err = opts.bufferWKT(ctx, op, input)
	}
	if err != nil {
		return err
	}
	return opts.draw()
}

func (opts *options) bufferWKT(ctx context.Context, op *advanced.Op, input io.Reader) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, 64<<20)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		g, err := wkt.Unmarshal(line)
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNumber)
		}
		result, err := opts.buffer(ctx, op, g, opts.distance)
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNumber)
		}
		text, err := wkt.Marshal(result)
		if err != nil {
			return errors.WithStack(err)
		}
		if _, err := fmt.Fprintln(opts.stdout, text); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(scanner.Err())
}

func (opts *options) bufferGeoJSON(ctx context.Context, op *advanced.Op, input io.Reader) error {
	data, err := io.ReadAll(input)
	if err != nil {
		return errors.WithStack(err)
	}
	collection, err := readFeatureCollection(data)
	if err != nil {
		return err
	}
	for i, feature := range collection.Features {
		distance, err := featureDistance(feature, opts.distance)
		if err != nil {
			return errors.Wrapf(err, "feature %d", i)
		}
		g, err := toGeom(feature.Geometry)
		if err != nil {
			return errors.Wrapf(err, "feature %d", i)
		}
		result, err := opts.buffer(ctx, op, g, distance)
		if err != nil {
			return errors.Wrapf(err, "feature %d", i)
		}
		if feature.Geometry, err = fromGeom(result); err != nil {
			return errors.Wrapf(err, "feature %d", i)
		}
	}

	encoder := json.NewEncoder(opts.stdout)
	return errors.WithStack(encoder.Encode(collection))
}

func (opts *options) buffer(ctx context.Context, op *advanced.Op, g geom.T, distance float64) (geom.T, error) {
	result, err := op.Buffer(ctx, g, distance)
	if err != nil {
		return nil, err
	}
	if opts.pngPath != "" || opts.imgcat {
		opts.inputs = append(opts.inputs, g)
		opts.results = append(opts.results, result)
	}
	return result, nil
}

func (opts *options) draw() error {
	if opts.pngPath == "" && !opts.imgcat {
		return nil
	}
	inputs, results := geom.NewGeometryCollection(), geom.NewGeometryCollection()
	if err := inputs.Push(opts.inputs...); err != nil {
		return errors.WithStack(err)
	}
	if err := results.Push(opts.results...); err != nil {
		return errors.WithStack(err)
	}
	if opts.pngPath != "" {
		scale := dbg.FitScale(drawingSize, inputs, results)
		if err := dbg.DrawGeometries(opts.pngPath, scale, inputs, results); err != nil {
			return err
		}
	}
	if opts.imgcat {
		return dbg.ShowGeometries(opts.stderr, drawingSize, inputs, results)
	}
	return nil
}
