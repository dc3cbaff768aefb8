// Package options loads and watches the panel options file (options.yaml).
//
// Options carries the four user settings of a status card: display_text,
// show_series_counter, highlight_color and compact_mode. Parse and Load start
// from Defaults and overlay whatever keys the YAML document sets; absent keys
// keep their default. Values are not validated beyond that.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Options. It re-adds the watch after every
// event so atomic-save editors (vim, VS Code) keep being tracked.
package options
