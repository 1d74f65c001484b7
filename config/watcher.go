/*
Copyright (C) 2023-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package config

import (
	"log"

	"github.com/dc0d/onexit"
	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a config file into a Store on every write, the same
// fsnotify-driven reload shape schema_fs.go uses to pick up new table
// definitions dropped into a schema directory.
type Watcher struct {
	store *Store
	path  string
	fw    *fsnotify.Watcher
}

// WatchFile starts watching path for writes and reloads the Store on
// every one. Parse errors during a reload are logged and otherwise
// ignored; the previous configuration stays active.
func WatchFile(store *Store, path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{store: store, path: path, fw: fw}
	go w.run()
	onexit.Register(func() { w.Close() })
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			g, err := Load(w.path)
			if err != nil {
				log.Printf("config: reload of %s failed, keeping previous configuration: %v", w.path, err)
				continue
			}
			w.store.Set(g)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("config: watcher error on %s: %v", w.path, err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
