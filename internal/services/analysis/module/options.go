package module

import (
	"fmt"
	"strings"
	"time"

	"chromalyzer/internal/adapters/rag"
	"chromalyzer/internal/core/peaks"
	"chromalyzer/internal/platform/config"
	"chromalyzer/internal/platform/store"
)

// Store backends selectable with CORE_ANALYSIS_STORE
const (
	StoreFile   = store.RecordsFile
	StoreSQLite = store.RecordsSQLite
	StorePG     = store.RecordsPG
	StoreNone   = store.RecordsNone
)

// Options holds configuration settings for the analysis module
type Options struct {
	Detector peaks.Options

	Store   string
	JSONDir string
	// Persist is the default when a request does not choose
	Persist     bool
	SaveRetries int

	MaxUploadBytes int64

	RAG rag.Options
}

// FromConfig reads CORE_PEAKS_*, CORE_ANALYSIS_* and CORE_RAG_*.
// A CORE_PEAKS_PROFILE yaml file seeds the detector; single env keys win over it
func FromConfig(cfg config.Conf) (Options, error) {
	pf := cfg.Prefix("CORE_PEAKS_")
	det := peaks.DefaultOptions()
	if _, err := pf.MayYAML("PROFILE", &det); err != nil {
		return Options{}, err
	}
	det.HeightPercentile = pf.MayFloat64("HEIGHT_PERCENTILE", det.HeightPercentile)
	det.ProminencePercentile = pf.MayFloat64("PROMINENCE_PERCENTILE", det.ProminencePercentile)
	det.MinDistance = pf.MayInt("MIN_DISTANCE", det.MinDistance)
	det.RelHeight = pf.MayFloat64("REL_HEIGHT", det.RelHeight)
	if err := det.Validate(); err != nil {
		return Options{}, fmt.Errorf("CORE_PEAKS: %w", err)
	}

	af := cfg.Prefix("CORE_ANALYSIS_")
	rf := cfg.Prefix("CORE_RAG_")
	return Options{
		Detector:       det,
		Store:          strings.ToLower(af.MayEnum("STORE", StoreFile, StoreFile, StoreSQLite, StorePG, StoreNone)),
		JSONDir:        af.MayString("JSON_DIR", "data/json_output"),
		Persist:        af.MayBool("PERSIST", true),
		SaveRetries:    af.MayInt("SAVE_RETRIES", 3),
		MaxUploadBytes: int64(af.MayInt("MAX_UPLOAD_MB", 64)) << 20,
		RAG: rag.Options{
			BaseURL:    rf.MayString("URL", ""),
			MaxContext: rf.MayInt("MAX_CONTEXT", 2000),
			Timeout:    rf.MayDuration("TIMEOUT", 60*time.Second),
			MaxRetries: rf.MayInt("MAX_RETRIES", 4),
		},
	}, nil
}
