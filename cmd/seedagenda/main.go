package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"
)

var drugs = []string{
	"osimertinib",
	"pembrolizumab",
	"nivolumab",
	"ipilimumab",
	"atezolizumab",
	"durvalumab",
	"trastuzumab deruxtecan",
	"datopotamab deruxtecan",
	"sacituzumab govitecan",
	"lorlatinib",
	"alectinib",
	"amivantamab",
	"chemotherapy",
	"carboplatin",
	"lenvatinib",
	"olaparib",
}

var institutions = []string{
	"Memorial Sloan Kettering",
	"MD Anderson",
	"Dana-Farber",
	"Gustave Roussy",
	"University College London",
	"National Cancer Institute",
	"Netherlands Cancer Institute",
	"Princess Margaret Cancer Centre",
	"Seoul National University Hospital",
	"Shanghai Pulmonary Hospital",
}

var sessions = []string{
	"Oral Abstract Session",
	"Mini Oral Session",
	"Poster Session",
	"Educational Session",
	"Plenary Session",
}

var themes = []string{
	"Metastatic NSCLC",
	"Early-Stage NSCLC",
	"SCLC",
	"Mesothelioma",
	"Thymic Malignancies",
	"Tobacco Control",
}

var titleForms = []string{
	"Phase %d trial of %s in %s",
	"Real-world outcomes with %s across %d centers: %s cohort",
	"Updated survival analysis of %s (%s), cycle %d",
	"Biomarker-driven selection for %s in %s: %d-month follow-up",
}

var surnames = []string{
	"Chen", "Tanaka", "Garcia", "Okafor", "Novak", "Lindqvist",
	"Rossi", "Park", "Dubois", "Iyer", "Kowalski", "Haddad",
}

var givenNames = []string{
	"A.", "B.", "C.", "D.", "E.", "F.", "G.", "H.", "J.", "K.", "L.", "M.",
}

var (
	recordCount = flag.Int("n", 600, "number of records to generate")
	seed        = flag.Int64("seed", 42, "random seed")
	startDate   = flag.String("start", "2025-10-17", "first conference day (YYYY-MM-DD)")
	days        = flag.Int("days", 4, "number of conference days")
	outFileName = flag.String("out", "", "output file (default stdout)")
)

func main() {
	flag.Parse()

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		slog.Error("invalid start date", "err", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *outFileName != "" {
		out, err = os.Create(*outFileName)
		if err != nil {
			slog.Error("cannot create output file", "err", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	rng := rand.New(rand.NewSource(*seed))
	w := csv.NewWriter(out)

	header := []string{"id", "title", "speakers", "affiliation", "session", "date", "time", "theme"}
	if err := w.Write(header); err != nil {
		slog.Error("write failed", "err", err)
		os.Exit(1)
	}

	for i := 0; i < *recordCount; i++ {
		row := makeRecord(rng, i+1, start, *days)
		if err := w.Write(row); err != nil {
			slog.Error("write failed", "err", err)
			os.Exit(1)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		slog.Error("flush failed", "err", err)
		os.Exit(1)
	}
	slog.Info("corpus generated", "records", *recordCount)
}

func makeRecord(rng *rand.Rand, n int, start time.Time, days int) []string {
	drug := drugs[rng.Intn(len(drugs))]
	theme := themes[rng.Intn(len(themes))]
	session := sessions[rng.Intn(len(sessions))]
	institution := institutions[rng.Intn(len(institutions))]

	title := makeTitle(rng, drug, theme)
	// Roughly a third of titles mention a second drug, so AND/OR queries
	// return different sets.
	if rng.Intn(3) == 0 {
		other := drugs[rng.Intn(len(drugs))]
		if other != drug {
			title = title + " plus " + other
		}
	}

	day := start.AddDate(0, 0, rng.Intn(days))
	hour := 8 + rng.Intn(10)
	minute := 15 * rng.Intn(4)

	speakers := makeSpeaker(rng)
	if rng.Intn(4) == 0 {
		speakers = speakers + "; " + makeSpeaker(rng)
	}

	return []string{
		makeIdentifier(rng, n),
		title,
		speakers,
		institution,
		session,
		day.Format("2006-01-02"),
		fmt.Sprintf("%02d:%02d", hour, minute),
		theme,
	}
}

func makeIdentifier(rng *rand.Rand, n int) string {
	prefixes := []string{"OA", "MA", "P", "EP", "LBA"}
	prefix := prefixes[rng.Intn(len(prefixes))]
	return prefix + strconv.Itoa(n/10+1) + "." + strconv.Itoa(n%10+1)
}

func makeTitle(rng *rand.Rand, drug, theme string) string {
	switch form := titleForms[rng.Intn(len(titleForms))]; form {
	case titleForms[0]:
		return fmt.Sprintf(form, rng.Intn(3)+1, drug, theme)
	case titleForms[1]:
		return fmt.Sprintf(form, drug, rng.Intn(40)+5, theme)
	case titleForms[2]:
		return fmt.Sprintf(form, drug, theme, rng.Intn(6)+1)
	default:
		return fmt.Sprintf(form, drug, theme, rng.Intn(24)+6)
	}
}

func makeSpeaker(rng *rand.Rand) string {
	return givenNames[rng.Intn(len(givenNames))] + " " + surnames[rng.Intn(len(surnames))]
}
