package complete

import "strings"

// markdown renders a doc comment: the description as is, then each tag on
// its own paragraph with the tag name in bold
func markdown(doc string) string {
	var desc []string
	var tags []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "@") {
			name, rest, _ := strings.Cut(line, " ")
			tag := "**" + name + "**"
			if rest != "" {
				tag += " " + strings.TrimSpace(rest)
			}
			tags = append(tags, tag)
			continue
		}
		if len(tags) > 0 && line != "" {
			// continuation of the previous tag
			tags[len(tags)-1] += " " + line
			continue
		}
		desc = append(desc, line)
	}
	parts := tags
	if d := strings.TrimSpace(strings.Join(desc, "\n")); d != "" {
		parts = append([]string{d}, tags...)
	}
	return strings.Join(parts, "\n\n")
}
