package filesystem

import (
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
)

var (
	// Matched against the accent-folded path.
	installationSegment = regexp.MustCompile(`instalacao_\s*(\d+)`)

	datedFileName = regexp.MustCompile(`(?i)^(\d+)-(\d{2})-(\d{4})\.pdf$`)
	periodSuffix  = regexp.MustCompile(`(?i)-(\d{2})-(\d{4})\.pdf$`)
	allDigits     = regexp.MustCompile(`^\d+$`)
)

// InferHints reads the installation number and reference period that a
// bill's path encodes.
//
// The installation comes from an "Instalação_<digits>" segment, then a
// "<digits>-MM-YYYY.pdf" file name, then an all-digit parent directory.
// The period comes from a "-MM-YYYY.pdf" file name suffix.
func InferHints(path string) domain.Hints {
	var h domain.Hints
	h.Installation = inferInstallation(path)

	if m := periodSuffix.FindStringSubmatch(filepath.Base(path)); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if name := ptbr.MonthName(time.Month(month)); name != "" {
			h.Month = name
			h.Year = year
		}
	}
	return h
}

func inferInstallation(path string) string {
	if m := installationSegment.FindStringSubmatch(ptbr.Fold(filepath.ToSlash(path))); m != nil {
		return m[1]
	}
	if m := datedFileName.FindStringSubmatch(filepath.Base(path)); m != nil {
		return m[1]
	}
	parent := filepath.Base(filepath.Dir(path))
	if allDigits.MatchString(parent) {
		return parent
	}
	return ""
}
