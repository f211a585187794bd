// Package files finds dataset files on disk and stores uploaded ones.
//
// Discovery lists CSV and Excel files newest first, so the server can pick
// up the latest export dropped into the data directory:
//
//	d := files.NewDiscovery(paths.BaseDir)
//	latest, ok, err := d.LatestDatasetFile(paths.DataDir)
//
// Manager writes uploads atomically into the uploads directory.
package files
