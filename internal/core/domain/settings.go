package domain

// OCREngineKind selects which OCR engine recognises page images.
type OCREngineKind string

// Available OCR engines.
const (
	// OCREngineHTTP sends images to an OCR service over HTTP.
	OCREngineHTTP OCREngineKind = "http"

	// OCREngineTesseract recognises images in-process with Tesseract.
	OCREngineTesseract OCREngineKind = "tesseract"
)

// IsValid returns true if the engine kind is recognised.
func (k OCREngineKind) IsValid() bool {
	return k == OCREngineHTTP || k == OCREngineTesseract
}

// Settings is the typed application configuration.
type Settings struct {
	OCR     OCRSettings
	Batch   BatchSettings
	Tagging TaggingSettings
	Storage StorageSettings
	Server  ServerSettings
}

// OCRSettings configures the OCR engine.
type OCRSettings struct {
	// Engine is "http" or "tesseract".
	Engine OCREngineKind `validate:"required,oneof=http tesseract"`

	// URL is the OCR endpoint used by the http engine.
	URL string `validate:"required_if=Engine http,omitempty,url"`

	// TimeoutSeconds bounds each OCR request.
	TimeoutSeconds int `validate:"gte=1,lte=600"`

	// RatePerSecond limits OCR requests; 0 disables limiting.
	RatePerSecond float64 `validate:"gte=0"`

	// Languages are Tesseract language codes.
	Languages []string `validate:"dive,required"`
}

// BatchSettings configures batch processing.
type BatchSettings struct {
	FailureMode FailureMode `validate:"required,oneof=abort isolate"`
}

// TaggingSettings configures entity extraction.
type TaggingSettings struct {
	// Gazetteer is an optional YAML file of known entities.
	Gazetteer string
}

// StorageSettings configures where documents and images are kept.
type StorageSettings struct {
	// DataDir defaults to ~/.docscan/data when empty.
	DataDir string
}

// ServerSettings configures the OCR service endpoint.
type ServerSettings struct {
	Addr string `validate:"required,hostname_port"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		OCR: OCRSettings{
			Engine:         OCREngineHTTP,
			URL:            "http://localhost:3000/api/ocr",
			TimeoutSeconds: 120,
			Languages:      []string{"eng"},
		},
		Batch: BatchSettings{FailureMode: FailureModeAbort},
		Server: ServerSettings{
			Addr: "localhost:3000",
		},
	}
}
