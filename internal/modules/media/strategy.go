package media

import (
	"path"
	"strings"
)

// RootPrefix is the top-level folder every listing folder lives under.
const RootPrefix = "emlak"

// objectIDCandidates returns the keys to try, in order, when deleting a
// single object. Stored ids come from two generations of the panel: some
// carry the root prefix, some do not, and a few were written with the file
// extension stripped. First successful removal wins.
func objectIDCandidates(objectID string) []string {
	id := strings.Trim(strings.TrimSpace(objectID), "/")
	if id == "" {
		return nil
	}

	candidates := []string{id}
	if !strings.HasPrefix(id, RootPrefix+"/") {
		candidates = append(candidates, RootPrefix+"/"+id)
	} else {
		candidates = append(candidates, strings.TrimPrefix(id, RootPrefix+"/"))
	}
	if ext := path.Ext(id); ext != "" {
		candidates = append(candidates, strings.TrimSuffix(id, ext))
	}
	return dedupe(candidates)
}

// folderPrefixCandidates returns the prefixes to try, in order, when
// deleting a whole folder.
func folderPrefixCandidates(folder string) []string {
	f := strings.Trim(strings.TrimSpace(folder), "/")
	if f == "" {
		return nil
	}

	candidates := []string{f + "/"}
	if !strings.HasPrefix(f, RootPrefix+"/") {
		candidates = append(candidates, RootPrefix+"/"+f+"/")
	} else {
		candidates = append(candidates, strings.TrimPrefix(f, RootPrefix+"/")+"/")
	}
	return dedupe(candidates)
}

// remapObjectID rewrites an object id from one folder to another, keeping
// the file part intact. Returns the id unchanged when it is not under
// oldFolder.
func remapObjectID(objectID, oldFolder, newFolder string) string {
	oldPrefix := strings.Trim(oldFolder, "/") + "/"
	newPrefix := strings.Trim(newFolder, "/") + "/"
	if !strings.HasPrefix(objectID, oldPrefix) {
		return objectID
	}
	return newPrefix + strings.TrimPrefix(objectID, oldPrefix)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
