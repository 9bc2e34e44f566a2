package driver

import (
	"fmt"
	"io"

	"quill/internal/core"
	"quill/internal/diag"
	"quill/internal/diagfmt"
	"quill/internal/expand"
	"quill/internal/lexer"
	"quill/internal/macroeval"
	"quill/internal/observ"
	"quill/internal/reader"
	"quill/internal/source"
	"quill/internal/token"
	"quill/internal/trace"
)

// TokenizeResult captures the artifacts of tokenizing one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Tokens  []token.Token
	Bag     *diag.Bag
}

// ReadResult captures the artifacts of reading one file.
type ReadResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Strings *source.Interner
	Read    reader.Result
	Bag     *diag.Bag
}

// ExpandResult captures the artifacts of expanding one file's body.
type ExpandResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Strings *source.Interner
	Tree    core.Tree
	Bag     *diag.Bag
	Timer   *observ.Timer
	Cached  bool
	Pretty  string // рендер дерева (из кеша или свежий)
}

// Options configures a driver run.
type Options struct {
	MaxDiagnostics int
	Tracer         trace.Tracer
	Cache          *DiskCache
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// lexBagReporter адаптирует diag.Bag под узкий интерфейс лексера.
type lexBagReporter struct{ bag *diag.Bag }

func (r lexBagReporter) Report(code diag.Code, span source.Span, msg string) {
	r.bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  msg,
		Primary:  span,
	})
}

// Tokenize lexes one file into its token stream.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	bag := diag.NewBag(opts.maxDiagnostics())
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: lexBagReporter{bag}})

	var tokens []token.Token
	for {
		t := lx.Next()
		tokens = append(tokens, t)
		if t.Kind == token.EOF {
			break
		}
	}
	bag.Sort()
	return &TokenizeResult{FileSet: fs, FileID: id, Tokens: tokens, Bag: bag}, nil
}

// Read parses one file into syntax objects.
func Read(path string, opts Options) (*ReadResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	strings := source.NewInterner()
	bag := diag.NewBag(opts.maxDiagnostics())
	res := reader.ReadFile(fs.Get(id), reader.Options{
		Strings:  strings,
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	})
	bag.Sort()
	return &ReadResult{FileSet: fs, FileID: id, Strings: strings, Read: res, Bag: bag}, nil
}

// Expand reads and expands one file's body: a body of exactly one form is
// expanded as an expression, any other body as a module. With a warm cache
// the expansion is skipped and the cached artifact is returned.
func Expand(path string, opts Options) (*ExpandResult, error) {
	timer := observ.NewTimer()

	idx := timer.Begin("read")
	rd, err := Read(path, opts)
	if err != nil {
		return nil, err
	}
	timer.End(idx, "")

	out := &ExpandResult{
		FileSet: rd.FileSet,
		FileID:  rd.FileID,
		Strings: rd.Strings,
		Bag:     rd.Bag,
		Timer:   timer,
	}
	if rd.Bag.HasErrors() {
		return out, nil
	}

	// кеш по хешу содержимого
	hash := rd.FileSet.Get(rd.FileID).Hash
	if opts.Cache != nil {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(hash, &payload); err == nil && ok {
			out.Cached = true
			out.Pretty = payload.Pretty
			out.Tree = payload.Root.tree()
			return out, nil
		}
	}

	idx = timer.Begin("expand")
	st := expand.NewState(expand.Options{
		Strings:   rd.Strings,
		Evaluator: macroeval.New(rd.Strings),
		Tracer:    opts.Tracer,
	})
	var res *expand.Result
	if len(rd.Read.Body) == 1 {
		// одна форма раскрывается как выражение
		res, err = st.ExpandExpression(rd.Read.Body[0])
	} else {
		res, err = st.ExpandModuleBody(rd.Read.Body)
	}
	timer.End(idx, "")

	if err != nil {
		reportExpandErr(err, rd.Bag)
		rd.Bag.Sort()
		return out, nil
	}
	if res.Status == expand.StatusBlocked {
		// драйверу сигналы прислать некому — раскрытие застряло
		reportExpandErr(st.StuckErr(), rd.Bag)
		rd.Bag.Sort()
		return out, nil
	}

	out.Tree = res.Tree()
	out.Pretty = core.Print(out.Tree, rd.Strings)

	if opts.Cache != nil {
		payload := DiskPayload{
			Schema:     diskCacheSchemaVersion,
			SourcePath: path,
			Pretty:     out.Pretty,
			Root:       cacheNode(out.Tree),
		}
		// ошибка записи в кеш не фатальна
		_ = opts.Cache.Put(hash, &payload)
	}
	return out, nil
}

func reportExpandErr(err error, bag *diag.Bag) {
	if ee, ok := err.(*expand.Err); ok {
		ee.Report(diag.BagReporter{Bag: bag})
		return
	}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.ExpandInfo,
		Message:  err.Error(),
	})
}

// PrintDiagnostics renders the bag with the standard pretty options.
func PrintDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, useColor bool) {
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: useColor, Context: 2})
}
