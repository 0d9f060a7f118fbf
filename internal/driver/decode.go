package driver

import (
	"errors"
	"fmt"

	"packfmt/internal/diag"
	"packfmt/internal/observ"
	"packfmt/internal/pack"
	"packfmt/internal/source"
)

// DefaultMaxDiagnostics is the bag limit used when Options.MaxDiagnostics
// is not positive.
const DefaultMaxDiagnostics = 100

// Options are shared by every entry point of the driver.
type Options struct {
	Version        pack.Version
	Variant        pack.Variant
	MaxDiagnostics int           // <= 0 means DefaultMaxDiagnostics
	Timer          *observ.Timer // optional
}

func (o Options) newBag() *diag.Bag {
	return diag.NewBag(diagnosticLimit(o.MaxDiagnostics))
}

func diagnosticLimit(n int) int {
	if n <= 0 {
		return DefaultMaxDiagnostics
	}
	return n
}

// DecodeResult holds one decoded template. Exactly one of Format and Err is
// set; a rejected template also has its diagnostic in Bag.
type DecodeResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Format  *pack.Format
	Err     *pack.Error
	Bag     *diag.Bag
}

// File returns the template source the result refers to.
func (r *DecodeResult) File() *source.File {
	return r.FileSet.Get(r.FileID)
}

// DecodeString decodes an inline template. name is only used for display.
func DecodeString(name, template string, opts Options) (*DecodeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.AddVirtual(name, []byte(template))
	if err != nil {
		return nil, &UsageError{Code: diag.UsageInputTooLarge, Err: fmt.Errorf("%w: %w", pack.ErrInputTooLarge, err)}
	}
	return decodeLoaded(fs, id, opts)
}

// DecodeFile loads and decodes one template file.
func DecodeFile(path string, opts Options) (*DecodeResult, error) {
	fs := source.NewFileSet()
	done := opts.Timer.Track("load")
	id, err := fs.Load(path)
	if err != nil {
		done("failed")
		return nil, fmt.Errorf("failed to load %q: %w", path, err)
	}
	done(path)
	return decodeLoaded(fs, id, opts)
}

func decodeLoaded(fs *source.FileSet, id source.FileID, opts Options) (*DecodeResult, error) {
	bag := opts.newBag()
	file := fs.Get(id)

	done := opts.Timer.Track("decode")
	f, err := pack.DecodeFile(file, pack.Options{
		Version:  opts.Version,
		Variant:  opts.Variant,
		Reporter: diag.BagReporter{Bag: bag},
	})
	done(fmt.Sprintf("%d bytes", len(file.Content)))

	if err != nil && pack.IsUsageError(err) {
		return nil, &UsageError{Code: UsageCode(err), Err: err}
	}
	res := &DecodeResult{FileSet: fs, FileID: id, Format: f, Bag: bag}
	if err != nil && !errors.As(err, &res.Err) {
		return nil, err
	}
	return res, nil
}

// UsageError is an invalid call (version, variant or template size) detected
// before any scanning.
type UsageError struct {
	Code diag.Code
	Err  error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code.ID(), e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// UsageCode maps a pack usage error onto its diagnostic code.
func UsageCode(err error) diag.Code {
	switch {
	case errors.Is(err, pack.ErrInvalidVersion):
		return diag.UsageInvalidVersion
	case errors.Is(err, pack.ErrInvalidVariant):
		return diag.UsageInvalidVariant
	case errors.Is(err, pack.ErrInputTooLarge):
		return diag.UsageInputTooLarge
	}
	return diag.UsageInfo
}
