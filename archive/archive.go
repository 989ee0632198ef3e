package archive

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rascal/blobstore"
	"github.com/hupe1980/rascal/codec"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/persistence"
)

const (
	snapshotPrefix = "snapshots/"
	manifestPrefix = "manifests/"
	snapshotExt    = ".rsc"
	manifestExt    = ".json"
)

var (
	// ErrNotFound is returned when no descriptor exists for an id.
	ErrNotFound = errors.New("archive: descriptor not found")
	// ErrInvalidID is returned for ids that are not uuids.
	ErrInvalidID = errors.New("archive: invalid descriptor id")
)

// Manifest describes one archived descriptor.
type Manifest struct {
	ID           string            `json:"id"`
	Calculator   string            `json:"calculator,omitempty"`
	Parameters   string            `json:"parameters,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Samples      int               `json:"samples"`
	Features     int               `json:"features"`
	SampleNames  []string          `json:"sample_names"`
	FeatureNames []string          `json:"feature_names"`
	Gradients    int               `json:"gradients"`
	Compression  string            `json:"compression"`
	Codec        string            `json:"codec"`
	Size         int               `json:"size"`
	Checksum     uint32            `json:"checksum"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Archive saves and loads descriptors by id.
type Archive struct {
	store       blobstore.BlobStore
	codec       codec.Codec
	compression persistence.Compression
	concurrency int
	now         func() time.Time
}

// Option configures an Archive.
type Option func(*Archive)

// WithCodec sets the manifest codec (default codec.Default).
func WithCodec(c codec.Codec) Option {
	return func(a *Archive) {
		if c != nil {
			a.codec = c
		}
	}
}

// WithCompression sets the snapshot compression (default zstd).
func WithCompression(c persistence.Compression) Option {
	return func(a *Archive) { a.compression = c }
}

// WithConcurrency bounds parallel manifest reads in List (default 8).
func WithConcurrency(n int) Option {
	return func(a *Archive) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// New creates an Archive over store.
func New(store blobstore.BlobStore, optFns ...Option) *Archive {
	a := &Archive{
		store:       store,
		codec:       codec.Default,
		compression: persistence.CompressionZSTD,
		concurrency: 8,
		now:         time.Now,
	}
	for _, fn := range optFns {
		fn(a)
	}
	return a
}

// Save stores d and returns its new id. The shape, codec, checksum and
// timestamp fields of m are filled in; ID and CreatedAt given by the caller
// are ignored.
func (a *Archive) Save(ctx context.Context, d *descriptor.Descriptor, m Manifest) (string, error) {
	snapshot, err := persistence.Marshal(d, persistence.WithCompression(a.compression))
	if err != nil {
		return "", fmt.Errorf("archive: encode snapshot: %w", err)
	}

	id := uuid.NewString()
	m.ID = id
	m.Samples = d.Samples().Count()
	m.Features = d.Features().Count()
	m.SampleNames = d.Samples().Names()
	m.FeatureNames = d.Features().Names()
	m.Gradients = 0
	if d.HasGradients() {
		m.Gradients = d.GradientSamples().Count()
	}
	m.Compression = a.compression.String()
	m.Codec = a.codec.Name()
	m.Size = len(snapshot)
	m.Checksum = persistence.CalculateChecksum(snapshot)
	m.CreatedAt = a.now().UTC()

	manifest, err := a.codec.Marshal(&m)
	if err != nil {
		return "", fmt.Errorf("archive: encode manifest: %w", err)
	}

	if err := a.store.Put(ctx, snapshotName(id), snapshot); err != nil {
		return "", fmt.Errorf("archive: write snapshot %s: %w", id, err)
	}
	if err := a.store.Put(ctx, manifestName(id), manifest); err != nil {
		_ = a.store.Delete(ctx, snapshotName(id))
		return "", fmt.Errorf("archive: write manifest %s: %w", id, err)
	}
	return id, nil
}

// Manifest returns the manifest of a saved descriptor.
func (a *Archive) Manifest(ctx context.Context, id string) (*Manifest, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	data, err := a.store.Get(ctx, manifestName(id))
	if err != nil {
		return nil, notFound(id, err)
	}

	var m Manifest
	if err := a.codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("archive: decode manifest %s: %w", id, err)
	}
	return &m, nil
}

// Load returns a saved descriptor after verifying the snapshot checksum
// recorded in its manifest.
func (a *Archive) Load(ctx context.Context, id string) (*descriptor.Descriptor, error) {
	m, err := a.Manifest(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := a.store.Get(ctx, snapshotName(id))
	if err != nil {
		return nil, notFound(id, err)
	}
	if actual := persistence.CalculateChecksum(data); actual != m.Checksum {
		return nil, fmt.Errorf("archive: snapshot %s: %w", id,
			&persistence.ChecksumMismatchError{Expected: m.Checksum, Actual: actual})
	}

	d, err := persistence.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("archive: decode snapshot %s: %w", id, err)
	}
	return d, nil
}

// List returns all manifests, oldest first. Manifests are fetched in parallel.
func (a *Archive) List(ctx context.Context) ([]Manifest, error) {
	names, err := a.store.List(ctx, manifestPrefix)
	if err != nil {
		return nil, fmt.Errorf("archive: list: %w", err)
	}

	var ids []string
	for _, name := range names {
		id, ok := strings.CutSuffix(strings.TrimPrefix(name, manifestPrefix), manifestExt)
		if ok && validateID(id) == nil {
			ids = append(ids, id)
		}
	}

	manifests := make([]Manifest, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			m, err := a.Manifest(gctx, id)
			if err != nil {
				return err
			}
			manifests[i] = *m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(manifests, func(x, y Manifest) int {
		return cmp.Or(x.CreatedAt.Compare(y.CreatedAt), strings.Compare(x.ID, y.ID))
	})
	return manifests, nil
}

// Delete removes a saved descriptor. The manifest goes first so a partial
// delete never leaves a listed descriptor without its snapshot.
func (a *Archive) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := a.store.Delete(ctx, manifestName(id)); err != nil {
		return fmt.Errorf("archive: delete manifest %s: %w", id, err)
	}
	if err := a.store.Delete(ctx, snapshotName(id)); err != nil {
		return fmt.Errorf("archive: delete snapshot %s: %w", id, err)
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func notFound(id string, err error) error {
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fmt.Errorf("archive: read %s: %w", id, err)
}

func snapshotName(id string) string { return snapshotPrefix + id + snapshotExt }
func manifestName(id string) string { return manifestPrefix + id + manifestExt }
