// Package token defines lexical token kinds and trivia for the quill reader.
// Invariants:
//   - Token.Text is a copy of the token's bytes in the original source.
//   - Token.Span matches Text exactly (Start..End).
//   - '#t', '#true', '#f', '#false' are lexed as BoolLit; every other
//     '#'-form except '#lang', '#%app' and '#%module' is an error.
//   - '#%app' and '#%module' are ordinary identifiers with special spelling.
//   - Line comments (';' to end of line) are leading Trivia and never appear
//     in the main token stream.
package token
