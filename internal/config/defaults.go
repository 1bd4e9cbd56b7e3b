package config

const (
	defaultConfigPath              = "~/.config/podalign/config.toml"
	defaultWorkDir                 = "."
	defaultExtractDirName          = "podcast_addict_extracted"
	defaultLogDir                  = "~/.local/share/podalign/logs"
	defaultEpisodesDir             = "/storage/emulated/0/Android/data/de.danoeh.antennapod/files/media/from_podcast_addict"
	defaultMinimumSimilarity       = 0.83
	defaultLockInThreshold         = 0.97
	defaultTitleWeight             = 1.0
	defaultMinFallbackURLLength    = 10
	defaultFeedSuggestionThreshold = 0.6
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"

	workDirEnv = "PODALIGN_WORK_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:     defaultWorkDir,
			LogDir:      defaultLogDir,
			EpisodesDir: defaultEpisodesDir,
		},
		Matching: Matching{
			MinimumSimilarity:       defaultMinimumSimilarity,
			LockInThreshold:         defaultLockInThreshold,
			TitleWeight:             defaultTitleWeight,
			URLFallback:             true,
			MinFallbackURLLength:    defaultMinFallbackURLLength,
			FeedSuggestions:         true,
			FeedSuggestionThreshold: defaultFeedSuggestionThreshold,
		},
		Transfer: Transfer{
			Downloads: true,
			Favorites: true,
			Chapters:  true,
			Tags:      true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
