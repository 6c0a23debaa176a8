package config

const (
	defaultDatabasePath        = "~/.local/share/ground/jstor_metadata.db"
	defaultLogDir              = "~/.local/share/ground/logs"
	defaultWikidataAPIURL      = "https://www.wikidata.org/w/api.php"
	defaultWikidataSPARQLURL   = "https://query.wikidata.org/sparql"
	defaultWikidataLanguage    = "en"
	defaultWikidataUserAgent   = "PhilTransOCRBot/1.0 (https://github.com/jburnford/philosophical-transactions-ocr-1665-1869)"
	defaultSearchLimit         = 10
	defaultTimeoutSeconds      = 30
	defaultMembershipProperty  = "P463"
	defaultMembershipTarget    = "Q123885"
	defaultCandidateLimit      = 5
	defaultAcceptanceThreshold = 0.3
	defaultCallDelayMillis     = 200
	defaultIdentityPauseMillis = 500
	defaultProgressEvery       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Database: defaultDatabasePath,
			LogDir:   defaultLogDir,
		},
		Wikidata: Wikidata{
			APIURL:             defaultWikidataAPIURL,
			SPARQLURL:          defaultWikidataSPARQLURL,
			Language:           defaultWikidataLanguage,
			UserAgent:          defaultWikidataUserAgent,
			SearchLimit:        defaultSearchLimit,
			TimeoutSeconds:     defaultTimeoutSeconds,
			MembershipProperty: defaultMembershipProperty,
			MembershipTarget:   defaultMembershipTarget,
		},
		Grounding: Grounding{
			CandidateLimit:      defaultCandidateLimit,
			AcceptanceThreshold: defaultAcceptanceThreshold,
			CallDelayMillis:     defaultCallDelayMillis,
			IdentityPauseMillis: defaultIdentityPauseMillis,
			ProgressEvery:       defaultProgressEvery,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
