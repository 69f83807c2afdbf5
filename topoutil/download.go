/*
Copyright © 2026 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package topoutil

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// maybeDownload checks whether path is an existing local file and, if it
// is not but looks like an http(s) address, downloads it to a temporary
// directory and returns the path of the local copy. For shapefiles the
// .dbf, .shx, and .prj sidecar files are downloaded along with the .shp
// file and the returned path points at the .shp copy.
func maybeDownload(path string) (string, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(path)
	}
	return path, nil
}

// downloadHTTP downloads the file at the given URL, retrying with
// exponential backoff on transient failures, and returns the path it was
// downloaded to.
func downloadHTTP(path string) (string, error) {
	dir, err := os.MkdirTemp("", "topology")
	if err != nil {
		return path, fmt.Errorf("topoutil: creating download directory: %v", err)
	}

	fnames := expandShp(path)
	for _, fname := range fnames {
		w, err := os.Create(filepath.Join(dir, filepath.Base(fname)))
		if err != nil {
			return path, fmt.Errorf("topoutil: creating file for download: %v", err)
		}
		err = backoff.RetryNotify(
			func() error {
				// Drop any partial content from a failed attempt.
				if err := w.Truncate(0); err != nil {
					return err
				}
				if _, err := w.Seek(0, io.SeekStart); err != nil {
					return err
				}
				resp, err := http.Get(fname)
				if err != nil {
					return err
				}
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					err := fmt.Errorf("downloading %s: %s", fname, resp.Status)
					if resp.StatusCode >= 400 && resp.StatusCode < 500 {
						// Client errors won't get better with retrying.
						return backoff.Permanent(err)
					}
					return err
				}
				_, err = io.Copy(w, resp.Body)
				return err
			},
			backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10),
			func(err error, d time.Duration) {
				Log.WithFields(logrus.Fields{"url": fname}).Infof("%v: retrying in %v", err, d)
			},
		)
		w.Close()
		if err != nil {
			return path, fmt.Errorf("topoutil: downloading %s: %v", fname, err)
		}
	}
	return filepath.Join(dir, filepath.Base(fnames[0])), nil
}

// expandShp returns the given file plus the associated .dbf, .shx, and
// .prj files if it has the .shp extension, and just the given file
// otherwise.
func expandShp(filename string) []string {
	o := []string{filename}
	if filepath.Ext(filename) != ".shp" {
		return o
	}
	for _, ext := range []string{".dbf", ".shx", ".prj"} {
		o = append(o, strings.TrimSuffix(filename, ".shp")+ext)
	}
	return o
}
