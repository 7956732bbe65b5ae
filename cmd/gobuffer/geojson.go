package main

import (
	"github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// Features may set their own distance with this numeric property.
const distanceProperty = "buffer_distance"

func featureDistance(feature *geojson.Feature, fallback float64) (float64, error) {
	value, ok := feature.Properties[distanceProperty]
	if !ok {
		return fallback, nil
	}
	distance, ok := value.(float64)
	if !ok {
		return 0, errors.Errorf("%s must be a number, got %v", distanceProperty, value)
	}
	return distance, nil
}

// Reads a FeatureCollection, a single Feature, or a bare geometry, always
// returning a collection.
func readFeatureCollection(data []byte) (*geojson.FeatureCollection, error) {
	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil && collection.Type == "FeatureCollection" {
		return collection, nil
	}
	feature, err := geojson.UnmarshalFeature(data)
	if err == nil && feature.Type == "Feature" {
		collection = geojson.NewFeatureCollection()
		return collection.AddFeature(feature), nil
	}
	geometry, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, errors.Wrap(err, "reading GeoJSON")
	}
	collection = geojson.NewFeatureCollection()
	return collection.AddFeature(geojson.NewFeature(geometry)), nil
}

func coord(position []float64) (geom.Coord, error) {
	if len(position) < 2 {
		return nil, errors.Errorf("position needs two ordinates, got %v", position)
	}
	return geom.Coord{position[0], position[1]}, nil
}

func coords(positions [][]float64) ([]geom.Coord, error) {
	result := make([]geom.Coord, len(positions))
	for i, position := range positions {
		c, err := coord(position)
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func coords2(positions [][][]float64) ([][]geom.Coord, error) {
	result := make([][]geom.Coord, len(positions))
	for i, ring := range positions {
		c, err := coords(ring)
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

// Converts to go-geom, dropping any ordinates past X and Y.
func toGeom(g *geojson.Geometry) (geom.T, error) {
	if g == nil {
		return nil, errors.New("feature has no geometry")
	}
	switch g.Type {
	case geojson.GeometryPoint:
		c, err := coord(g.Point)
		if err != nil {
			return nil, err
		}
		return geom.NewPoint(geom.XY).SetCoords(c)
	case geojson.GeometryMultiPoint:
		c, err := coords(g.MultiPoint)
		if err != nil {
			return nil, err
		}
		return geom.NewMultiPoint(geom.XY).SetCoords(c)
	case geojson.GeometryLineString:
		c, err := coords(g.LineString)
		if err != nil {
			return nil, err
		}
		return geom.NewLineString(geom.XY).SetCoords(c)
	case geojson.GeometryMultiLineString:
		c, err := coords2(g.MultiLineString)
		if err != nil {
			return nil, err
		}
		return geom.NewMultiLineString(geom.XY).SetCoords(c)
	case geojson.GeometryPolygon:
		c, err := coords2(g.Polygon)
		if err != nil {
			return nil, err
		}
		return geom.NewPolygon(geom.XY).SetCoords(c)
	case geojson.GeometryMultiPolygon:
		c := make([][][]geom.Coord, len(g.MultiPolygon))
		for i, polygon := range g.MultiPolygon {
			rings, err := coords2(polygon)
			if err != nil {
				return nil, err
			}
			c[i] = rings
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(c)
	case geojson.GeometryCollection:
		collection := geom.NewGeometryCollection()
		for _, child := range g.Geometries {
			converted, err := toGeom(child)
			if err != nil {
				return nil, err
			}
			if err := collection.Push(converted); err != nil {
				return nil, errors.WithStack(err)
			}
		}
		return collection, nil
	}
	return nil, errors.Errorf("unsupported GeoJSON geometry type %q", g.Type)
}

func positions(cs []geom.Coord) [][]float64 {
	result := make([][]float64, len(cs))
	for i, c := range cs {
		result[i] = []float64{c.X(), c.Y()}
	}
	return result
}

func polygonPositions(rings [][]geom.Coord) [][][]float64 {
	result := make([][][]float64, len(rings))
	for i, ring := range rings {
		result[i] = positions(ring)
	}
	return result
}

// Converts a buffer result, which is always polygonal.
func fromGeom(g geom.T) (*geojson.Geometry, error) {
	switch g := g.(type) {
	case *geom.Polygon:
		return geojson.NewPolygonGeometry(polygonPositions(g.Coords())), nil
	case *geom.MultiPolygon:
		polygons := make([][][][]float64, g.NumPolygons())
		for i := range polygons {
			polygons[i] = polygonPositions(g.Polygon(i).Coords())
		}
		return geojson.NewMultiPolygonGeometry(polygons...), nil
	}
	return nil, errors.Errorf("unexpected result type %T", g)
}
