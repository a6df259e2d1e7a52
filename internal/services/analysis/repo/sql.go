package repo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"chromalyzer/internal/modkit/repokit"
	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/store"
	"chromalyzer/internal/services/analysis/domain"
)

type (
	// PG binds the record store to Postgres
	PG struct{}

	// Lite binds the record store to the embedded sqlite database
	Lite struct{}

	// queries is the sql record store shared by both dialects
	queries struct {
		q repokit.Queryer
		d dialect

		mu    sync.Mutex
		ready bool
	}

	dialect struct {
		name   string
		schema []string
		upsert string
		get    string
		list   string
		// stamp converts a write time into the driver value
		stamp func(time.Time) any
		entry func(store.Row) (domain.Entry, error)
		wrap  func(err error, msg string) error
	}
)

// NewPG creates a Postgres record store binder
func NewPG() repokit.Binder[Store] { return PG{} }

// NewLite creates a sqlite record store binder
func NewLite() repokit.Binder[Store] { return Lite{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Store { return &queries{q: q, d: pgDialect} }

// Bind implements repokit.Binder
func (Lite) Bind(q repokit.Queryer) Store { return &queries{q: q, d: liteDialect} }

var pgDialect = dialect{
	name: "pg",
	schema: []string{`
create table if not exists analyses (
	record_key text primary key,
	analysis_id uuid not null,
	file_name text not null,
	total_peaks integer not null,
	max_intensity double precision not null,
	baseline_intensity double precision not null,
	record jsonb not null,
	created_at timestamptz not null default now()
)`,
		`create index if not exists analyses_created_at_idx on analyses (created_at desc)`,
	},
	upsert: `
insert into analyses (record_key, analysis_id, file_name, total_peaks, max_intensity, baseline_intensity, record, created_at)
values ($1, $2::uuid, $3, $4, $5, $6, $7::jsonb, $8)
on conflict (record_key) do update set
	analysis_id = excluded.analysis_id,
	file_name = excluded.file_name,
	total_peaks = excluded.total_peaks,
	max_intensity = excluded.max_intensity,
	baseline_intensity = excluded.baseline_intensity,
	record = excluded.record,
	created_at = excluded.created_at`,
	get:   `select record::text from analyses where record_key = $1`,
	list:  `select record_key, file_name, total_peaks, max_intensity, created_at from analyses order by created_at desc, record_key limit $1`,
	stamp: func(t time.Time) any { return t },
	entry: func(row store.Row) (domain.Entry, error) {
		var e domain.Entry
		err := row.Scan(&e.Key, &e.FileName, &e.TotalPeaks, &e.MaxIntensity, &e.CreatedAt)
		e.CreatedAt = e.CreatedAt.UTC()
		return e, err
	},
	wrap: perr.FromPostgres,
}

var liteDialect = dialect{
	name: "sqlite",
	schema: []string{`
create table if not exists analyses (
	record_key text primary key,
	analysis_id text not null,
	file_name text not null,
	total_peaks integer not null,
	max_intensity real not null,
	baseline_intensity real not null,
	record text not null,
	created_at integer not null
)`,
		`create index if not exists analyses_created_at_idx on analyses (created_at desc)`,
	},
	upsert: `
insert into analyses (record_key, analysis_id, file_name, total_peaks, max_intensity, baseline_intensity, record, created_at)
values (?, ?, ?, ?, ?, ?, ?, ?)
on conflict (record_key) do update set
	analysis_id = excluded.analysis_id,
	file_name = excluded.file_name,
	total_peaks = excluded.total_peaks,
	max_intensity = excluded.max_intensity,
	baseline_intensity = excluded.baseline_intensity,
	record = excluded.record,
	created_at = excluded.created_at`,
	get:  `select record from analyses where record_key = ?`,
	list: `select record_key, file_name, total_peaks, max_intensity, created_at from analyses order by created_at desc, record_key limit ?`,
	// unix milliseconds keep ordering exact without driver time parsing
	stamp: func(t time.Time) any { return t.UnixMilli() },
	entry: func(row store.Row) (domain.Entry, error) {
		var (
			e  domain.Entry
			ms int64
		)
		err := row.Scan(&e.Key, &e.FileName, &e.TotalPeaks, &e.MaxIntensity, &ms)
		e.CreatedAt = time.UnixMilli(ms).UTC()
		return e, err
	},
	wrap: perr.FromSQLite,
}

// ensure creates the table on first use
func (r *queries) ensure(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return nil
	}
	create := func(q repokit.Queryer) error {
		for _, s := range r.d.schema {
			if _, err := q.Exec(ctx, s); err != nil {
				return err
			}
		}
		return nil
	}
	var err error
	if tx, ok := r.q.(repokit.TxRunner); ok {
		err = repokit.WithTx(ctx, tx, create)
	} else {
		err = create(r.q)
	}
	if err != nil {
		return r.d.wrap(err, r.d.name+": create analyses schema")
	}
	r.ready = true
	return nil
}

func (r *queries) Save(ctx context.Context, id string, rec domain.Record) (string, error) {
	key, err := saveKey(rec)
	if err != nil {
		return "", err
	}
	if err := r.ensure(ctx); err != nil {
		return "", err
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "encode record")
	}
	err = store.ExecOne(ctx, r.q, r.d.upsert,
		key, id, rec.FileName, rec.Summary.TotalPeaks,
		rec.Summary.MaxIntensity, rec.Summary.BaselineIntensity,
		string(b), r.d.stamp(time.Now().UTC()),
	)
	if err != nil {
		return "", r.d.wrap(err, "save analysis")
	}
	return key, nil
}

func (r *queries) Get(ctx context.Context, key string) (domain.Record, error) {
	if err := CheckKey(key); err != nil {
		return domain.Record{}, err
	}
	if err := r.ensure(ctx); err != nil {
		return domain.Record{}, err
	}
	raw, err := store.One(ctx, r.q, func(row store.Row) (string, error) {
		var s string
		err := row.Scan(&s)
		return s, err
	}, r.d.get, key)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.Record{}, perr.NotFoundf("analysis %s not found", key)
	}
	if err != nil {
		return domain.Record{}, r.d.wrap(err, "get analysis")
	}
	var rec domain.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Record{}, perr.Wrapf(err, perr.ErrorCodeJSON, "decode %s", key)
	}
	return rec, nil
}

func (r *queries) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	out, err := store.Many(ctx, r.q, r.d.entry, r.d.list, clampLimit(limit))
	if err != nil {
		return nil, r.d.wrap(err, "list analyses")
	}
	if out == nil {
		out = []domain.Entry{}
	}
	return out, nil
}
