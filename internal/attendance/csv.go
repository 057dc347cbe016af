package attendance

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// CSVContentType is the MIME type of exported registers.
const CSVContentType = "text/csv;charset=utf-8"

var csvHeader = []string{"Class", "Student ID", "Name", "Time", "Status"}

// WriteCSV writes records in register order. Every cell is quoted and embedded
// quotes are doubled; rows are separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, classLabel string, records []Record) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, csvHeader)
	for _, rec := range records {
		bw.WriteByte('\n')
		writeRow(bw, []string{classLabel, rec.ID, rec.Name, rec.Time, string(rec.Status)})
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(c, `"`, `""`))
		w.WriteByte('"')
	}
}

// ExportFilename names the download for classLabel on the UTC day of now.
func ExportFilename(classLabel string, now time.Time) string {
	return "attendance_grade_" + classLabel + "_" + now.UTC().Format("2006-01-02") + ".csv"
}
