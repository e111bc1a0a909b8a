package capture

// Status classifies the outcome of one capture cycle. The values are the
// wire values sent to the downstream API.
type Status string

const (
	// StatusDataCaptured means the page was reached, all three text regions
	// were read and the time-block grammar matched.
	StatusDataCaptured Status = "DataCaptured"
	// StatusParsingFailed means the page text was read but the time-block
	// grammar did not match or its date did not parse.
	StatusParsingFailed Status = "ParsingFailed"
	// StatusTimeout means a navigation, visibility wait or text read
	// exceeded its time budget.
	StatusTimeout Status = "TimeoutError"
	// StatusScrapingFailed covers any other failure while driving the page.
	StatusScrapingFailed Status = "ScrapingFailed"
)
