package repo

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/services/analysis/domain"
)

// File stores each record as indented JSON in Dir
type File struct {
	Dir string
}

// NewFile returns a file store rooted at dir
func NewFile(dir string) *File { return &File{Dir: dir} }

// Save writes the record atomically through a temp file
func (f *File) Save(ctx context.Context, _ string, rec domain.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := saveKey(rec)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeDB, "create %s", f.Dir)
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "encode record")
	}
	tmp, err := os.CreateTemp(f.Dir, "."+key+".*")
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeDB, "create temp record")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return "", perr.Wrap(err, perr.ErrorCodeDB, "write record")
	}
	if err := tmp.Close(); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeDB, "write record")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.Dir, key)); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeDB, "store record")
	}
	return key, nil
}

// Get reads the record stored under key
func (f *File) Get(_ context.Context, key string) (domain.Record, error) {
	if err := CheckKey(key); err != nil {
		return domain.Record{}, err
	}
	b, err := os.ReadFile(filepath.Join(f.Dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Record{}, perr.NotFoundf("analysis %s not found", key)
	}
	if err != nil {
		return domain.Record{}, perr.Wrap(err, perr.ErrorCodeDB, "read record")
	}
	var rec domain.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.Record{}, perr.Wrapf(err, perr.ErrorCodeJSON, "decode %s", key)
	}
	return rec, nil
}

// listing is the slice of a stored record the index shows. trace_data is
// never decoded
type listing struct {
	FileName string `json:"file_name"`
	Summary  struct {
		TotalPeaks   int     `json:"total_peaks"`
		MaxIntensity float64 `json:"max_intensity"`
	} `json:"summary"`
}

// List reads the summary of every record in Dir, newest file first
func (f *File) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	ents, err := os.ReadDir(f.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Entry{}, nil
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list records")
	}
	out := make([]domain.Entry, 0, len(ents))
	for _, e := range ents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || CheckKey(e.Name()) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		b, err := os.ReadFile(filepath.Join(f.Dir, e.Name()))
		if err != nil {
			continue
		}
		var l listing
		if err := json.Unmarshal(b, &l); err != nil {
			// foreign or partial files are not listed
			continue
		}
		out = append(out, domain.Entry{
			Key:          e.Name(),
			FileName:     l.FileName,
			TotalPeaks:   l.Summary.TotalPeaks,
			MaxIntensity: l.Summary.MaxIntensity,
			CreatedAt:    info.ModTime().UTC(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Key < out[j].Key
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}
