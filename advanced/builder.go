package advanced

import (
	"context"
	"log/slog"

	"github.com/osuushi/buffer/dbg"
	"github.com/osuushi/buffer/internal/noding"
	"github.com/osuushi/buffer/internal/offset"
	"github.com/osuushi/buffer/internal/topo"
	"github.com/osuushi/buffer/planar"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// BufferAtPrecision runs the buffer pipeline once, with every coordinate
// rounded to pm. It does not retry: a robustness failure is returned as a
// *planar.TopologyError. Floating precision uses exact noding, and fixed
// precision uses snap rounding.
func BufferAtPrecision(ctx context.Context, g geom.T, distance float64, params Params, pm planar.PrecisionModel) (result geom.T, err error) {
	defer func() {
		if recoveredErr := planar.RecoverTopology(recover()); recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	logger := Logger()

	curveSetBuilder := offset.NewCurveSetBuilder(params, pm, distance)
	curves, err := curveSetBuilder.Curves(g)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	if curveSetBuilder.ErodedRings > 0 {
		logger.Debug("rings eroded completely", "count", curveSetBuilder.ErodedRings, "distance", distance)
	}
	if len(curves) == 0 {
		return planar.EmptyPolygon(), nil
	}

	noded := newNoder(pm).Node(curves)
	noding.ValidateNoding(noded, pm)
	logger.Debug("noded offset curves", "precision", pm.String(), "curves", len(curves), "substrings", len(noded))

	edges := topo.NewEdgeList()
	for _, ss := range noded {
		pts := planar.RemoveRepeatedPoints(ss.Pts)
		// Collapsed substrings have no direction to label
		if len(pts) < 2 {
			continue
		}
		edges.InsertUnique(pts, ss.Label)
	}
	graph := topo.NewGraph()
	graph.AddEdges(edges.Edges())
	subgraphs := topo.BuildSubgraphs(graph)
	logger.Debug("built graph", "edges", edges.Len(), "nodes", len(graph.Nodes), "subgraphs", len(subgraphs))

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "buffer cancelled")
	}

	polygonBuilder := topo.NewPolygonBuilder(graph)
	processed := make([]*topo.Subgraph, 0, len(subgraphs))
	for _, subgraph := range subgraphs {
		outsideDepth := topo.NewSubgraphDepthLocator(processed).Depth(subgraph.Rightmost)
		subgraph.ComputeDepth(outsideDepth)
		subgraph.FindResultEdges()
		processed = append(processed, subgraph)
		polygonBuilder.Add(subgraph)

		if logger.Enabled(ctx, slog.LevelDebug) {
			logger.Debug("located subgraph", "subgraph", dbg.Name(subgraph), "rightmost", subgraph.Rightmost.String(), "outsideDepth", outsideDepth)
		}
	}

	polygons := polygonBuilder.Polygons()
	logger.Debug("built polygons", "count", len(polygons))
	return planar.BuildPolygonal(polygons), nil
}

func newNoder(pm planar.PrecisionModel) noding.Noder {
	if pm.IsFloating() {
		return noding.NewMCIndexNoder(pm)
	}
	return noding.NewSnapRounder(pm)
}
