package rules

// browserProfiles are the directory names browsers keep their profiles under
var browserProfiles = []string{
	"chrome",
	"google-chrome",
	"chromium",
	"firefox",
	"mozilla",
	"microsoft edge",
	"microsoft-edge",
	"edge",
	"brave-browser",
	"opera",
	"vivaldi",
	"safari",
	"com.apple.safari",
}

// Default returns the built-in rule set.
//
// Browser rules need a browser profile directory and a cache directory below
// it. A bare profile directory is not enough: it also holds bookmarks,
// history and passwords.
func Default() *Set {
	var rs []Rule

	for _, profile := range browserProfiles {
		rs = append(rs, Rule{
			Name:     "browser-" + profile,
			Category: Browser,
			Kind:     KindMarker,
			Pattern:  "*cache*",
			Within:   profile,
		})
	}
	rs = append(rs,
		Rule{Name: "browser-safari-caches", Category: Browser, Kind: KindFragment, Pattern: "caches/com.apple.safari"},
	)

	rs = append(rs,
		Rule{Category: System, Kind: KindMarker, Pattern: ".cache"},
		Rule{Category: System, Kind: KindMarker, Pattern: "cache"},
		Rule{Category: System, Kind: KindMarker, Pattern: "caches"},
		Rule{Category: System, Kind: KindMarker, Pattern: ".thumbnails"},
		Rule{Category: System, Kind: KindFragment, Pattern: "var/cache"},
		Rule{Category: System, Kind: KindGlob, Pattern: ".ds_store"},
		Rule{Category: System, Kind: KindGlob, Pattern: "thumbs.db"},
		Rule{Category: System, Kind: KindGlob, Pattern: "ehthumbs.db"},
		Rule{Category: System, Kind: KindGlob, Pattern: "iconcache*.db"},
		Rule{Category: System, Kind: KindGlob, Pattern: "thumbcache_*.db"},
	)

	rs = append(rs,
		Rule{Category: Application, Kind: KindMarker, Pattern: "__pycache__"},
		Rule{Category: Application, Kind: KindMarker, Pattern: ".pytest_cache"},
		Rule{Category: Application, Kind: KindMarker, Pattern: ".mypy_cache"},
		Rule{Category: Application, Kind: KindMarker, Pattern: ".ruff_cache"},
		Rule{Category: Application, Kind: KindMarker, Pattern: ".sass-cache"},
		Rule{Category: Application, Kind: KindMarker, Pattern: ".parcel-cache"},
		Rule{Category: Application, Kind: KindMarker, Pattern: "_cacache"},
		Rule{Category: Application, Kind: KindMarker, Pattern: "deriveddata"},
		Rule{Category: Application, Kind: KindFragment, Pattern: ".gradle/caches"},
		Rule{Category: Application, Kind: KindSuffix, Pattern: ".cache"},
		Rule{Category: Application, Kind: KindSuffix, Pattern: ".pyc"},
		Rule{Category: Application, Kind: KindSuffix, Pattern: ".pyo"},
		Rule{Category: Application, Kind: KindGlob, Pattern: ".eslintcache"},
	)

	rs = append(rs,
		Rule{Category: Log, Kind: KindSuffix, Pattern: ".log"},
		Rule{Category: Log, Kind: KindGlob, Pattern: "*.log.*"},
		Rule{Category: Log, Kind: KindMarker, Pattern: "logs"},
		Rule{Category: Log, Kind: KindMarker, Pattern: ".logs"},
		Rule{Category: Log, Kind: KindMarker, Pattern: "log"},
	)

	rs = append(rs,
		Rule{Category: Temporary, Kind: KindSuffix, Pattern: ".tmp"},
		Rule{Category: Temporary, Kind: KindSuffix, Pattern: ".temp"},
		Rule{Category: Temporary, Kind: KindSuffix, Pattern: ".swp"},
		Rule{Category: Temporary, Kind: KindSuffix, Pattern: ".swo"},
		Rule{Category: Temporary, Kind: KindSuffix, Pattern: ".crdownload"},
		Rule{Category: Temporary, Kind: KindSuffix, Pattern: ".part"},
		Rule{Category: Temporary, Kind: KindSuffix, Pattern: ".partial"},
		Rule{Category: Temporary, Kind: KindGlob, Pattern: "~$*"},
		Rule{Category: Temporary, Kind: KindMarker, Pattern: "tmp"},
		Rule{Category: Temporary, Kind: KindMarker, Pattern: ".tmp"},
		Rule{Category: Temporary, Kind: KindMarker, Pattern: "temp"},
		Rule{Category: Temporary, Kind: KindMarker, Pattern: ".temp"},
	)

	rs = append(rs,
		Rule{Category: Backup, Kind: KindSuffix, Pattern: ".bak"},
		Rule{Category: Backup, Kind: KindSuffix, Pattern: ".backup"},
		Rule{Category: Backup, Kind: KindSuffix, Pattern: ".old"},
		Rule{Category: Backup, Kind: KindSuffix, Pattern: ".orig"},
		Rule{Category: Backup, Kind: KindGlob, Pattern: "*~"},
		Rule{Category: Backup, Kind: KindMarker, Pattern: "backup"},
		Rule{Category: Backup, Kind: KindMarker, Pattern: "backups"},
		Rule{Category: Backup, Kind: KindMarker, Pattern: ".backup"},
	)

	rs = append(rs,
		Rule{Category: Other, Kind: KindGlob, Pattern: "*cache*"},
		Rule{Category: Other, Kind: KindSuffix, Pattern: ".dmp"},
		Rule{Category: Other, Kind: KindMarker, Pattern: "crashpad"},
		Rule{Category: Other, Kind: KindMarker, Pattern: "crashreporter"},
		Rule{Category: Other, Kind: KindMarker, Pattern: "diagnosticreports"},
	)

	return MustNewSet(rs...)
}
