// Package walkthrough is the narrated CRUD example: it drives a SQLite users
// table step by step and comments on every step with the console tracer.
package walkthrough

import (
	"embed"

	"fullyhacks/internal/source"
)

//go:embed walkthrough.go
var files embed.FS

// Sources serves this package's own source so the tracer can replay it even
// when the binary runs away from the source tree. Put it after a disk loader:
// it matches by base name only.
var Sources source.Loader = source.FSLoader{FS: files}

// ExpectedTranscript is the documented output of Run.
const ExpectedTranscript = `
Alice: id=1 username='alice' password='1234' bio=None
Users: [User(id=1, username='alice', password='1234', bio=None), User(id=2, username='bob', password='1234', bio=None)]
Alice: id=1 username='alice' password='1234' bio='I am Alice'
Bob: None
`
