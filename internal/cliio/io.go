// Package cliio implements the verify-links command's file formats: the
// input CSV of requests and the two output JSON files (successes and
// failures), grounded on the original culture_link/validate_file.py.
package cliio

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	derr "saimgo/internal/errors"
	"saimgo/internal/model"
)

// ReadTasks parses path as a headerless CSV with columns:
// task_id, brc_id, find_ccno, "extra1,extra2,...", fallback_link.
func ReadTasks(path string) ([]model.SearchRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, derr.NewValidationError("input", err.Error())
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, derr.NewValidationError("input", err.Error())
	}

	var reqs []model.SearchRequest
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		taskID, _ := strconv.Atoi(row[0])
		brcID, err := strconv.Atoi(row[1])
		if err != nil {
			brcID = -1
		}
		var extras []string
		for _, e := range strings.Split(row[3], ",") {
			if t := strings.TrimSpace(e); t != "" {
				extras = append(extras, t)
			}
		}
		reqs = append(reqs, model.SearchRequest{
			TaskID:       taskID,
			BrcID:        brcID,
			FindCCNo:     row[2],
			FindExtra:    extras,
			FallbackLink: row[4],
		})
	}
	return reqs, nil
}

// OutputPaths resolves the success/failure JSON file paths for a given
// input file and output directory flag, matching the original's
// _gen_out_path fallback to "<input>.res.json"/".fail.json" when no
// output directory is given.
func OutputPaths(output string, inFile string) (success string, failure string) {
	info, err := os.Stat(output)
	if output == "" || err != nil || !info.IsDir() {
		abs, _ := filepath.Abs(inFile)
		return abs + ".res.json", abs + ".fail.json"
	}
	base := filepath.Base(inFile)
	return filepath.Join(output, base+".res.json"), filepath.Join(output, base+".fail.json")
}

type successEntry struct {
	BrcID    int              `json:"brc_id"`
	Link     string           `json:"link"`
	LinkType model.LinkLevel  `json:"link_type"`
	Status   []statusEntry    `json:"status"`
}

type statusEntry struct {
	Link   string `json:"link"`
	Reason string `json:"reason"`
}

type failureEntry struct {
	Result *string             `json:"result"`
	Status []failureStatusEntry `json:"status"`
}

type failureStatusEntry struct {
	Link   string          `json:"link"`
	Type   model.LinkLevel `json:"type"`
	Reason string          `json:"reason"`
}

// WriteResults splits results into the success/failure JSON shapes the
// original system emits and writes both files.
func WriteResults(results []model.VerifiedURL, successPath, failurePath string) error {
	success := make(map[int]successEntry)
	failure := make(map[int]failureEntry)

	for _, r := range results {
		if r.Link != "" {
			var linkType model.LinkLevel
			statuses := make([]statusEntry, 0, len(r.Status))
			for _, s := range r.Status {
				if s.Link == r.Link {
					linkType = s.LinkType
				}
				statuses = append(statuses, statusEntry{Link: s.Link, Reason: string(s.Status)})
			}
			success[r.TaskID] = successEntry{BrcID: r.BrcID, Link: r.Link, LinkType: linkType, Status: statuses}
			continue
		}
		statuses := make([]failureStatusEntry, 0, len(r.Status))
		for _, s := range r.Status {
			statuses = append(statuses, failureStatusEntry{Link: s.Link, Type: s.LinkType, Reason: string(s.Status)})
		}
		failure[r.TaskID] = failureEntry{Result: nil, Status: statuses}
	}

	if err := writeJSON(successPath, success); err != nil {
		return err
	}
	return writeJSON(failurePath, failure)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return derr.NewSessionCreationError("writing "+path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(v)
}
