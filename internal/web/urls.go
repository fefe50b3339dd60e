package web

import "regexp"

var (
	markdownLinkRE = regexp.MustCompile(`\[[^\]]*\]\((https?://[^\s)]+)\)`)
	bareURLRE      = regexp.MustCompile(`https?://[^\s<>()\[\]"']+`)
)

// ExtractURLs collects the URLs mentioned in a message. Markdown link
// targets are taken first so a link's URL is not double-counted by the
// bare-URL scan; results are deduplicated preserving first-seen order.
func ExtractURLs(text string) []string {
	seen := make(map[string]struct{})
	var urls []string
	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, m := range markdownLinkRE.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	stripped := markdownLinkRE.ReplaceAllString(text, "")
	for _, u := range bareURLRE.FindAllString(stripped, -1) {
		add(u)
	}
	return urls
}
