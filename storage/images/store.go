package imagestore

import (
	"github.com/trezcool/wittayakom/core"
)

// New returns the image store selected by the configuration.
func New(conf *core.Config) core.ImageStore {
	st := conf.Storage
	if st.ImagesBackend == "supabase" {
		return NewSupabaseStore(st.SupabaseURL, st.SupabaseKey, st.SupabaseBucket, st.ImagesMaxDimension)
	}
	return NewLocalStore(st.ImagesDir, st.ImagesBaseURL, st.ImagesMaxDimension)
}
