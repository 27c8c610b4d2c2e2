package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

var (
	dumpMu  sync.Mutex
	dumpLog *log.Logger
)

// SetDumpWriter directs raw remote exchanges to w. A nil writer disables dumping.
func SetDumpWriter(w io.Writer) {
	dumpMu.Lock()
	defer dumpMu.Unlock()
	if w == nil {
		dumpLog = nil
		return
	}
	dumpLog = log.New(w, "", log.LstdFlags)
}

// DumpEnabled reports whether a dump writer is installed.
func DumpEnabled() bool {
	dumpMu.Lock()
	defer dumpMu.Unlock()
	return dumpLog != nil
}

type dumpSection struct {
	Title string
	Body  string
}

// LogRemoteExchange writes one request/response pair with the remote service.
func LogRemoteExchange(traceID, step, endpoint, request, response string) {
	sections := []dumpSection{
		{Title: "ENDPOINT", Body: endpoint},
		{Title: "REQUEST", Body: request},
		{Title: "RESPONSE", Body: response},
	}
	writeDump(traceID, step, sections)
}

func writeDump(traceID, step string, sections []dumpSection) {
	dumpMu.Lock()
	l := dumpLog
	dumpMu.Unlock()
	if l == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[REMOTE]")
	for _, tag := range []string{traceID, step} {
		if tag == "" {
			continue
		}
		b.WriteString("[")
		b.WriteString(tag)
		b.WriteString("]")
	}
	b.WriteString("\n")
	for _, sec := range sections {
		t := strings.TrimSpace(sec.Title)
		if t == "" {
			t = "CONTENT"
		}
		b.WriteString("--- ")
		b.WriteString(t)
		b.WriteString(" ---\n")
		b.WriteString(sec.Body)
		if !strings.HasSuffix(sec.Body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	l.Print(b.String())
}
