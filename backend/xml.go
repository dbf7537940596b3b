package backend

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type statusDoc struct {
	Targets     []statusTarget     `xml:"target"`
	Changelists []statusChangelist `xml:"changelist"`
}

type statusTarget struct {
	Path    string        `xml:"path,attr"`
	Entries []statusEntry `xml:"entry"`
}

type statusChangelist struct {
	Name    string        `xml:"name,attr"`
	Entries []statusEntry `xml:"entry"`
}

type statusEntry struct {
	Path     string `xml:"path,attr"`
	WCStatus struct {
		Item  string `xml:"item,attr"`
		Props string `xml:"props,attr"`
	} `xml:"wc-status"`
}

// parseStatus decodes `svn status --xml`. Relative entry paths are joined
// with base. Entries keep the order svn printed them in: targets first, then
// changelists.
func parseStatus(data []byte, base string) ([]StatusEntry, error) {
	var doc statusDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse svn status: %w", err)
	}

	var entries []StatusEntry
	convert := func(e statusEntry, changelist string) error {
		typ, ok := ParseStatusType(e.WCStatus.Item)
		if !ok {
			return fmt.Errorf("parse svn status: unknown item %q for %s", e.WCStatus.Item, e.Path)
		}
		// property-only edits are still something to commit
		if typ == StatusNormal && (e.WCStatus.Props == "modified" || e.WCStatus.Props == "conflicted") {
			typ = StatusModified
		}
		path := e.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		entries = append(entries, StatusEntry{
			Path:       filepath.Clean(path),
			Type:       typ,
			Changelist: changelist,
		})
		return nil
	}

	for _, target := range doc.Targets {
		for _, e := range target.Entries {
			if err := convert(e, ""); err != nil {
				return nil, err
			}
		}
	}
	for _, cl := range doc.Changelists {
		for _, e := range cl.Entries {
			if err := convert(e, cl.Name); err != nil {
				return nil, err
			}
		}
	}
	return entries, nil
}

type infoDoc struct {
	Entries []struct {
		Kind        string `xml:"kind,attr"`
		Path        string `xml:"path,attr"`
		Revision    string `xml:"revision,attr"`
		URL         string `xml:"url"`
		RelativeURL string `xml:"relative-url"`
		Repository  struct {
			Root string `xml:"root"`
			UUID string `xml:"uuid"`
		} `xml:"repository"`
		WCInfo struct {
			WCRoot string `xml:"wcroot-abspath"`
		} `xml:"wc-info"`
		Commit struct {
			Revision string `xml:"revision,attr"`
			Author   string `xml:"author"`
		} `xml:"commit"`
	} `xml:"entry"`
}

func parseInfo(data []byte) (Info, error) {
	var doc infoDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Info{}, fmt.Errorf("parse svn info: %w", err)
	}
	if len(doc.Entries) == 0 {
		return Info{}, fmt.Errorf("parse svn info: no entry")
	}
	e := doc.Entries[0]
	info := Info{
		Path:           e.Path,
		Kind:           e.Kind,
		URL:            strings.TrimSpace(e.URL),
		RelativeURL:    strings.TrimSpace(e.RelativeURL),
		RepositoryRoot: strings.TrimSpace(e.Repository.Root),
		UUID:           strings.TrimSpace(e.Repository.UUID),
		WCRoot:         strings.TrimSpace(e.WCInfo.WCRoot),
		LastAuthor:     strings.TrimSpace(e.Commit.Author),
	}
	info.Revision, _ = strconv.Atoi(e.Revision)
	info.LastChangedRev, _ = strconv.Atoi(e.Commit.Revision)
	return info, nil
}

type logDoc struct {
	Entries []struct {
		Revision string `xml:"revision,attr"`
		Author   string `xml:"author"`
		Date     string `xml:"date"`
		Msg      string `xml:"msg"`
	} `xml:"logentry"`
}

func parseLog(data []byte) ([]LogEntry, error) {
	var doc logDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse svn log: %w", err)
	}
	entries := make([]LogEntry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		rev, err := strconv.Atoi(e.Revision)
		if err != nil {
			return nil, fmt.Errorf("parse svn log: bad revision %q", e.Revision)
		}
		entry := LogEntry{
			Revision: rev,
			Author:   e.Author,
			Message:  e.Msg,
		}
		if e.Date != "" {
			entry.Date, err = time.Parse(time.RFC3339Nano, e.Date)
			if err != nil {
				return nil, fmt.Errorf("parse svn log: bad date %q: %w", e.Date, err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
