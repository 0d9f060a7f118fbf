package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"packfmt/internal/diag"
	"packfmt/internal/pack"
	"packfmt/internal/source"
)

// TemplateExt is the extension CheckPaths looks for inside directories.
const TemplateExt = ".pack"

// CheckOptions configures CheckPaths.
type CheckOptions struct {
	Options
	Jobs     int          // 0 = GOMAXPROCS
	Cache    *DiskCache   // optional
	Progress ProgressSink // optional
}

// CheckFileResult содержит результат проверки одного файла
type CheckFileResult struct {
	Path       string
	FileID     source.FileID
	Directives int
	Encoding   pack.Encoding
	Bag        *diag.Bag
	Cached     bool
	// Err is the load error or the *pack.Error that rejected the template.
	// It is set even when Bag dropped the diagnostic on its limit.
	Err error
}

// OK reports whether the template was loaded and decoded.
func (r *CheckFileResult) OK() bool {
	return r.Err == nil
}

// CheckResult holds the per-file results in path order.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []CheckFileResult
}

// Failed counts the files with errors.
func (r *CheckResult) Failed() int {
	n := 0
	for i := range r.Files {
		if !r.Files[i].OK() {
			n++
		}
	}
	return n
}

// Merged collects every file's diagnostics into one sorted bag; files are
// already in path order, so the first maxDiagnostics findings win.
func (r *CheckResult) Merged(maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(diagnosticLimit(maxDiagnostics))
	for i := range r.Files {
		bag.Merge(r.Files[i].Bag)
	}
	bag.Sort()
	return bag
}

// ListTemplates expands paths into a sorted, de-duplicated list of files:
// directories are walked for *.pack files, plain files are taken as is.
func ListTemplates(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		st, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// пусть ошибка загрузки станет диагностикой IO4001
				add(root)
				continue
			}
			return nil, err
		}
		if !st.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == TemplateExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckPaths decodes every template under paths in parallel. Template and I/O
// errors become diagnostics; only usage errors and cancellation are returned.
func CheckPaths(ctx context.Context, paths []string, opts CheckOptions) (*CheckResult, error) {
	// проверяем версию и вариант до любой работы с файлами
	if _, err := pack.Table(opts.Version, opts.Variant); err != nil {
		return nil, &UsageError{Code: UsageCode(err), Err: err}
	}

	files, err := ListTemplates(paths)
	if err != nil {
		return nil, err
	}

	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = ""
	}
	fileSet := source.NewFileSetWithBase(baseDir)
	result := &CheckResult{FileSet: fileSet, Files: make([]CheckFileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	// FileSet не потокобезопасен: загружаем последовательно
	done := opts.Timer.Track("load")
	loadErrors := make(map[int]error)
	for i, path := range files {
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			// пустой виртуальный файл, чтобы диагностике было на что указывать
			id, err = fileSet.AddVirtual(path, nil)
			if err != nil {
				return nil, err
			}
			loadErrors[i] = loadErr
		}
		result.Files[i] = CheckFileResult{Path: path, FileID: id, Bag: opts.newBag()}
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}
	done(fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	defer opts.Timer.Track("check")(fmt.Sprintf("%d jobs", jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range result.Files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res := &result.Files[i]
			file := fileSet.Get(res.FileID)
			started := time.Now()
			emit(opts.Progress, Event{File: res.Path, Status: StatusWorking})
			defer func() {
				status := StatusDone
				if !res.OK() {
					status = StatusError
				}
				emit(opts.Progress, Event{File: res.Path, Status: status, Cached: res.Cached, Elapsed: time.Since(started)})
			}()

			if loadErr, failed := loadErrors[i]; failed {
				res.Err = loadErr
				res.Bag.Add(diag.Errorf(diag.IOLoadFileError, source.Span{File: res.FileID}, "failed to load file: %v", loadErr))
				return nil
			}
			return checkOne(res, file, opts)
		})
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func checkOne(res *CheckFileResult, file *source.File, opts CheckOptions) error {
	key := CacheKey(opts.Version, opts.Variant, file)

	if opts.Cache != nil {
		lookup := opts.Timer.Track("cache")
		var cached CheckPayload
		// битая запись = промах, шаблон просто декодируется заново
		hit, err := opts.Cache.Get(key, &cached)
		lookup("")
		if err == nil && hit {
			res.Cached = true
			res.Directives = cached.Directives
			if enc, ok := parseEncoding(cached.Encoding); ok {
				res.Encoding = enc
			}
			if e := cached.restore(file); e != nil {
				res.Err = e
				res.Bag.Add(e.Diagnostic())
			}
			return nil
		}
	}

	done := opts.Timer.Track("decode")
	f, err := pack.DecodeFile(file, pack.Options{
		Version:  opts.Version,
		Variant:  opts.Variant,
		Reporter: diag.BagReporter{Bag: res.Bag},
	})
	done("")
	var decodeErr *pack.Error
	if err != nil && !errors.As(err, &decodeErr) {
		return err
	}
	if decodeErr != nil {
		res.Err = decodeErr
	}
	if f != nil {
		res.Directives = len(f.Directives)
		res.Encoding = f.Encoding
	}
	// кеш необязателен: ошибка записи не должна ронять check
	_ = opts.Cache.Put(key, payloadFor(f, opts.Version, opts.Variant, decodeErr))
	return nil
}

func parseEncoding(name string) (pack.Encoding, bool) {
	for _, e := range []pack.Encoding{pack.EncodingUnspecified, pack.EncodingASCII8BIT, pack.EncodingUSASCII, pack.EncodingUTF8} {
		if e.String() == name {
			return e, true
		}
	}
	return pack.EncodingUnspecified, false
}
