// Command radiotracks keeps a local cache of the tracks aired on Vertical
// Radio and searches it.
//
// Usage:
//
//	radiotracks refresh                 fetch new plays into the cache
//	radiotracks search <artist>         print the titles aired for an artist
//	radiotracks serve                   run the web UI
//	radiotracks config init|show        manage the configuration file
//
// Settings come from radiotracks.toml (see --config), a .env file and
// RADIOTRACKS_* environment variables, in increasing priority.
package main
