package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dress2mydoor/dress2mydoor/internal/logger"
	"github.com/dress2mydoor/dress2mydoor/pkg/dress"
	"github.com/dress2mydoor/dress2mydoor/pkg/gallery"
)

var htmlNameRe = regexp.MustCompile(`\.html?$`)

// Source says where the record set came from.
type Source string

const (
	SourceJSON  Source = "json"
	SourceHTML  Source = "html"
	SourceFiles Source = "files"
	SourceDir   Source = "dir"
)

// Input is the resolved record set plus the HTML files it was built from.
type Input struct {
	Source Source
	// Dresses is the seed payload, one JSON value per dress. Elements of a
	// JSON input file are forwarded as written.
	Dresses []json.RawMessage
	// Records holds the decoded dresses. JSON elements that do not decode as
	// a dress are only in Dresses.
	Records []dress.Record
	Files   []string
}

// ResolveInput gathers records according to opts. The first matching rule
// wins: an explicit --file, then an explicit --files list, then a scan of
// opts.Dir. Fatal problems are returned as *ExitError.
func ResolveInput(opts Options) (Input, error) {
	if opts.File != "" {
		return resolveFile(opts.File)
	}

	var files []string
	source := SourceDir
	if len(opts.Files) > 0 {
		source = SourceFiles
		for _, f := range opts.Files {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, absPath(f))
			}
		}
	} else {
		found, err := ListHTMLFiles(opts.Dir)
		if err != nil {
			return Input{}, exitf(ExitFileNotFound, ErrFileNotFound, "%s", opts.Dir)
		}
		files = found
	}

	if len(files) == 0 {
		return Input{}, exitf(ExitNoHTMLFiles, ErrNoHTMLFiles, "in %s", opts.Dir)
	}

	records := make([]dress.Record, 0)
	for _, path := range files {
		parsed, err := ExtractFile(path)
		if err != nil {
			logger.Warn("failed to parse", "path", path, "error", err)
			continue
		}
		records = append(records, parsed...)
	}

	dresses, err := EncodeRecords(records)
	if err != nil {
		return Input{}, err
	}
	return Input{Source: source, Dresses: dresses, Records: records, Files: files}, nil
}

func resolveFile(file string) (Input, error) {
	path := absPath(file)
	if _, err := os.Stat(path); err != nil {
		return Input{}, exitf(ExitFileNotFound, ErrFileNotFound, "%s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dresses, err := ReadJSONFile(path)
		if errors.Is(err, ErrNoDresses) {
			return Input{}, &ExitError{Code: ExitNoDresses, Err: err}
		}
		if err != nil {
			return Input{}, &ExitError{Code: ExitInvalidJSON, Err: err}
		}
		return Input{Source: SourceJSON, Dresses: dresses, Records: decodeRecords(dresses)}, nil
	case ".html", ".htm":
		records, err := ExtractFile(path)
		if err != nil {
			return Input{}, exitf(ExitFileNotFound, ErrFileNotFound, "%s: %v", path, err)
		}
		dresses, err := EncodeRecords(records)
		if err != nil {
			return Input{}, err
		}
		return Input{Source: SourceHTML, Dresses: dresses, Records: records, Files: []string{path}}, nil
	default:
		return Input{}, exitf(ExitUnsupportedFile, ErrUnsupportedFile, "%s", path)
	}
}

// ReadJSONFile reads a JSON array and returns its elements undecoded, so
// fields the record type does not know about survive the trip to the seed
// endpoint. Malformed JSON wraps ErrInvalidJSON; any other top-level value
// wraps ErrNoDresses.
func ReadJSONFile(path string) ([]json.RawMessage, error) {
	raw, err := os.ReadFile(path) //#nosec G304 -- CLI reads the user-specified seed file
	if err != nil {
		return nil, err
	}
	var dresses []json.RawMessage
	if err := json.Unmarshal(raw, &dresses); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %s holds a JSON %s, not an array", ErrNoDresses, path, typeErr.Value)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, path, err)
	}
	return dresses, nil
}

// decodeRecords decodes the elements that fit the record type and skips
// the rest.
func decodeRecords(dresses []json.RawMessage) []dress.Record {
	records := make([]dress.Record, 0, len(dresses))
	for i, raw := range dresses {
		var r dress.Record
		if err := json.Unmarshal(raw, &r); err != nil {
			logger.Debug("JSON dress does not decode as a record, forwarding as-is", "index", i, "error", err)
			continue
		}
		records = append(records, r)
	}
	return records
}

// ExtractFile reads one HTML file and runs the gallery extractor on it.
func ExtractFile(path string) ([]dress.Record, error) {
	raw, err := os.ReadFile(path) //#nosec G304 -- CLI reads user-specified gallery pages
	if err != nil {
		return nil, err
	}
	records := gallery.Extract(string(raw))
	logger.Debug("parsed gallery file",
		"path", path,
		"size", humanize.Bytes(uint64(len(raw))),
		"dresses", len(records))
	return records, nil
}

// ListHTMLFiles returns the top-level *.html and *.htm files in dir in
// listing order.
func ListHTMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !htmlNameRe.MatchString(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("skipping unreadable entry", "path", path, "error", err)
			}
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, absPath(path))
		}
	}
	return files, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
