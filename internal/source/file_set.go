package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans into
// line/column positions.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// BaseDir возвращает базовую директорию для относительных путей.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fs.baseDir
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and
// returns a new FileID. A repeated path always gets a fresh ID; the index
// keeps the latest version.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fs.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds a virtual file (stdin, test, REPL) with the FileVirtual flag.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end, lenLineIdx, lenContent uint32
	var err error
	lenLineIdx, err = safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err = safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}

	return string(f.Content[start:end])
}
