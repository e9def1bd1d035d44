package guide

import "errors"

// EntryRef identifies the entry a ParseReport concerns, by its byte
// offset within the guide.
type EntryRef struct {
	Offset int64
}

// ParseReport is one structured diagnostic record: the guide path, the
// entry the error concerns (nil when not tied to a particular entry),
// the line within that entry (-1 when not tied to a particular line),
// and the underlying error. This is the shape spec.md §7's closing
// paragraph describes a driver tool collecting instead of aborting.
type ParseReport struct {
	Path  string
	Entry *EntryRef
	Line  int
	Err   error
}

// ReportCollector aggregates ParseReports across one or more guides, the
// way the wider retrieval pack's holo-build aggregates plain errors in
// errorcollector.go's ErrorCollector: an Add method that turns "abort on
// first error" call sites into "keep going, report everything at the
// end". Here the collected unit is a ParseReport rather than a bare
// error, since spec.md §7 asks for the richer record.
type ReportCollector struct {
	Reports []ParseReport
}

// Add appends a report built from path, entry, line and err. If err is
// nil, nothing happens, so callers can write c.Add(path, ref, line,
// someOperation()) unconditionally.
func (c *ReportCollector) Add(path string, entry *EntryRef, line int, err error) {
	if err == nil {
		return
	}
	c.Reports = append(c.Reports, ParseReport{Path: path, Entry: entry, Line: line, Err: err})
}

// CollectEntries opens the guide at path and walks its entire entry
// stream, the way Guide.Entries does. Instead of discarding the
// iteration error, it records a ParseReport and returns whatever
// entries were successfully decoded before the failure (or all of them,
// on a clean run). A failure to open the guide at all is also recorded,
// with a nil Entry and Line -1.
func (c *ReportCollector) CollectEntries(path string) []Entry {
	var entries []Entry
	err := WithGuide(path, func(g *Guide) error {
		it := g.Entries()
		for {
			e, ok := it.Next()
			if !ok {
				break
			}
			entries = append(entries, e)
		}
		c.Add(path, entryRefFor(it.Err()), -1, it.Err())
		return nil
	})
	c.Add(path, nil, -1, err)
	return entries
}

// entryRefFor extracts the offending offset from an entry-decode error,
// when that error carries one, so CollectEntries' reports can point at
// the record that failed rather than just naming the guide.
func entryRefFor(err error) *EntryRef {
	var ute *UnknownEntryTypeError
	if errors.As(err, &ute) {
		return &EntryRef{Offset: ute.Offset}
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return &EntryRef{Offset: fe.Offset}
	}
	return nil
}
