package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/util"
)

// WriteGraph persists the street graph as a bzip2-compressed text file.
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d %d\n", len(g.vertices), len(g.edges), len(g.streetNames))

	for vId := 0; vId < len(g.vertices); vId++ {
		v := g.vertices[vId]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)

		fmt.Fprintf(w, "%s %s %d\n", latF, lonF, v.osmId)
	}

	// street names one per line, they may contain spaces
	for _, name := range g.streetNames {
		fmt.Fprintf(w, "%s\n", name)
	}

	for _, e := range g.edges {
		lengthF := strconv.FormatFloat(e.length, 'f', -1, 64)

		fmt.Fprintf(w, "%d %d %d %s %d %d\n",
			e.from, e.to, e.key, lengthF, e.nameID, e.class)
	}

	return w.Flush()
}

// ReadGraph loads a graph file written by WriteGraph and rebuilds the
// adjacency arrays. any failure wraps ErrGraphLoad, the process must not
// serve without a loaded graph.
func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrGraphLoad, "open graph file %s", filename)
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrGraphLoad, "open bzip2 stream of %s", filename)
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	header, err := readLine(br)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrGraphLoad, "read graph header")
	}
	var n, m, numNames int
	if _, err := fmt.Sscanf(header, "%d %d %d", &n, &m, &numNames); err != nil {
		return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse graph header %q", header)
	}

	g := NewGraph()
	g.vertices = make([]Vertex, 0, n)
	g.edges = make([]Edge, 0, m)

	for i := 0; i < n; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "read vertex %d", i)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, util.WrapErrorf(nil, util.ErrGraphLoad, "malformed vertex line %q", line)
		}
		lat, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse vertex lat %q", fields[0])
		}
		lon, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse vertex lon %q", fields[1])
		}
		osmId, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse vertex osm id %q", fields[2])
		}
		g.AddVertex(lat, lon, osmId)
	}

	g.streetNames = make([]string, 0, numNames)
	g.nameIds = make(map[string]int32, numNames)
	for i := 0; i < numNames; i++ {
		name, err := readLine(br)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "read street name %d", i)
		}
		g.streetNames = append(g.streetNames, name)
		g.nameIds[name] = int32(i)
	}

	for i := 0; i < m; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "read edge %d", i)
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, util.WrapErrorf(nil, util.ErrGraphLoad, "malformed edge line %q", line)
		}
		from, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse edge tail %q", fields[0])
		}
		to, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse edge head %q", fields[1])
		}
		key, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse edge key %q", fields[2])
		}
		length, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse edge length %q", fields[3])
		}
		nameID, err := strconv.ParseInt(fields[4], 10, 32)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse edge name id %q", fields[4])
		}
		if nameID < 0 || int(nameID) >= len(g.streetNames) {
			return nil, util.WrapErrorf(nil, util.ErrGraphLoad, "edge name id %d out of range", nameID)
		}
		class, err := strconv.ParseUint(fields[5], 10, 8)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrGraphLoad, "parse edge class %q", fields[5])
		}

		id := Index(len(g.edges))
		g.edges = append(g.edges, NewEdge(id, Index(from), Index(to), int32(key),
			length, int32(nameID), pkg.StreetClass(class)))
	}

	g.BuildAdjacency()
	return g, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
