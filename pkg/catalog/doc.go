// Package catalog builds the run-time catalog of resource kinds served by a
// cluster. The catalog is data-driven: kinds (including arbitrary custom
// resources) are discovered from the API server at run start, so supporting a
// new CRD never requires a code change.
package catalog
