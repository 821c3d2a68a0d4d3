// Package app is the composition root for the roster browser.
//
// Run loads the config file and user preferences, opens the log file and the
// favourites database under the data directory, builds the Rick & Morty and
// Pokémon catalogues, and hands them to the TUI. It blocks until the user
// quits or the context is cancelled, then closes the database and the log.
//
//	Run()
//	  ├─> config.Load()        ~/.config/roster/config.toml
//	  ├─> prefs.Load()         theme and last browsed catalogue
//	  ├─> logging.New()        JSON lines in <data_dir>/roster.log
//	  ├─> favorites.Open()     <data_dir>/favorites.db
//	  ├─> source.FromConfig()  one paged loader per catalogue
//	  └─> ui.Run()             blocks
//
// Nothing fetches in the background. Pages are requested by the TUI as the
// user scrolls, searches or refreshes.
//
// A missing or unreadable prefs file is not an error. A bad config file, an
// unknown --source, or a favourites database locked by another roster process
// is fatal.
package app
