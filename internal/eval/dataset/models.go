package dataset

// CardScanRecord is one labeled capture: the raw text recognized from each
// band, plus the card it is known to be.
type CardScanRecord struct {
	ID            string `json:"id" parquet:"id"`
	TitleText     string `json:"title_text" parquet:"title_text"`
	CollectorText string `json:"collector_text" parquet:"collector_text"`
	FullText      string `json:"full_text" parquet:"full_text"`

	ExpectedName   string `json:"expected_name" parquet:"expected_name"`
	ExpectedSet    string `json:"expected_set" parquet:"expected_set"`
	ExpectedNumber string `json:"expected_number" parquet:"expected_number"`
}
