package nodejson

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// DefaultGroupsFile is the groups file looked up in a dataset directory.
const DefaultGroupsFile = "gq.json"

// ReadDocument decodes the file at path using the format registered for
// its extension.
func ReadDocument(path string) (map[string]any, error) {
	decode := decoderFor(path)
	if decode == nil {
		return nil, apperrors.NewParseError("unsupported document format %q", filepath.Ext(path)).WithPath(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(path, "document does not exist", err)
		}
		return nil, err
	}

	doc, err := decode(data)
	if err != nil {
		return nil, apperrors.NewParseError("malformed document: %v", err).WithPath(path)
	}
	return doc, nil
}

// ReadNodeFile reads and parses a single node document.
func ReadNodeFile(path string) (*models.Node, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	node, err := ParseNode(doc)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr.WithPath(path)
		}
		return nil, err
	}
	return node, nil
}

// ReadNodeFiles parses every path in order. The first failure aborts.
func ReadNodeFiles(paths []string) ([]*models.Node, error) {
	nodes := make([]*models.Node, 0, len(paths))
	for _, p := range paths {
		n, err := ReadNodeFile(p)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Dataset lists the files of a dataset directory.
type Dataset struct {
	Dir        string   `json:"dir"`
	NodeFiles  []string `json:"node_files"`
	GroupsFile string   `json:"groups_file"`
}

// DiscoverDataset lists the node documents of dir, sorted by name, and
// locates its groups file. groupsFile names the preferred groups file;
// YAML variants of the same base name are accepted as fallbacks.
func DiscoverDataset(dir, groupsFile string) (*Dataset, error) {
	if groupsFile == "" {
		groupsFile = DefaultGroupsFile
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, apperrors.NewNotFoundError(dir, "dataset directory does not exist", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewNotFoundError(dir, "failed to list dataset directory", err)
	}

	base := strings.TrimSuffix(groupsFile, filepath.Ext(groupsFile))
	candidates := []string{groupsFile, base + ".yaml", base + ".yml"}

	ds := &Dataset{Dir: dir}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.TrimSuffix(name, filepath.Ext(name)) == base {
			continue
		}
		if decoderFor(name) == nil {
			continue
		}
		ds.NodeFiles = append(ds.NodeFiles, filepath.Join(dir, name))
	}
	sort.Strings(ds.NodeFiles)

	for _, c := range candidates {
		p := filepath.Join(dir, c)
		if _, err := os.Stat(p); err == nil {
			ds.GroupsFile = p
			break
		}
	}
	if ds.GroupsFile == "" {
		return nil, apperrors.NewNotFoundError(filepath.Join(dir, groupsFile), "dataset has no groups file", nil)
	}
	return ds, nil
}

// Nodes parses every node document of the dataset.
func (d *Dataset) Nodes() ([]*models.Node, error) {
	return ReadNodeFiles(d.NodeFiles)
}

// Groups reads the dataset's groups file.
func (d *Dataset) Groups() (*Groups, error) {
	return ReadGroups(d.GroupsFile)
}
