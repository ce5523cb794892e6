package res

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeImage is an image resource
	ResourceTypeImage
	// ResourceTypeFont is a font resource
	ResourceTypeFont
	// ResourceTypeData is a participant data or job file
	ResourceTypeData
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// ErrNotFound is returned when a reference resolves to no readable file
var ErrNotFound = errors.New("resource not found")

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Loader loads images and data files from disk or data URLs
type Loader struct {
	// BaseDir resolves relative references
	BaseDir string

	// resolved images keyed by reference and target size
	cache     map[string]*Image
	cacheLock sync.RWMutex

	searchPaths []string
}

// NewLoader creates a new resource loader rooted at baseDir
func NewLoader(baseDir string) *Loader {
	return &Loader{
		BaseDir:     baseDir,
		cache:       make(map[string]*Image),
		searchPaths: []string{},
	}
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a data URL or file path
func (l *Loader) Load(ref string) (*Resource, error) {
	if strings.HasPrefix(ref, "data:") {
		return parseDataURL(ref)
	}

	path := ref
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	res, err := loadLocal(path)
	if errors.Is(err, os.ErrNotExist) {
		return l.loadFromSearchPaths(ref)
	}
	return res, err
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:image/png;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	s := strings.TrimPrefix(u, "data:")
	meta, dataPart, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := "application/octet-stream"
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mime = comps[0]
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		var err error
		data, err = base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
	} else if d, err := url.QueryUnescape(dataPart); err == nil {
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}

	r := &Resource{URL: "data:" + mime, Data: data, MimeType: mime}
	r.Type = determineResourceType(mime, "")
	return r, nil
}

// loadLocal loads a resource from a local file
func loadLocal(path string) (*Resource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w: is a directory", path, ErrNotFound)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	res := &Resource{URL: path, Data: data}
	res.MimeType = determineMimeType(path)
	res.Type = determineResourceType(res.MimeType, path)
	return res, nil
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(ref string) (*Resource, error) {
	for _, searchPath := range l.searchPaths {
		res, err := loadLocal(filepath.Join(searchPath, ref))
		if err == nil {
			return res, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// determineMimeType determines the MIME type of a file
func determineMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// determineResourceType determines the type of a resource
func determineResourceType(mimeType, path string) ResourceType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return ResourceTypeImage
	case strings.HasPrefix(mimeType, "font/"):
		return ResourceTypeFont
	case mimeType == "application/json", mimeType == "application/yaml":
		return ResourceTypeData
	case path == "":
		return ResourceTypeUnknown
	}
	return ResourceTypeOther
}
