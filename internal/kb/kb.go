// Package kb loads the knowledge base used to ground draft responses.
//
// The knowledge base is a directory of per-topic JSON files, each mapping an
// article key to a {question, answer} pair. A missing directory yields an
// empty knowledge base rather than an error: drafting degrades, the run does
// not.
package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Article is a single Q/A entry.
type Article struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// KnowledgeBase maps topic -> article key -> article.
type KnowledgeBase map[string]map[string]Article

// Load reads every *.json file in dir as a topic. The topic name is the file
// name without the .json suffix (and without a trailing "_faq").
func Load(dir string) (KnowledgeBase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return KnowledgeBase{}, nil
		}
		return nil, fmt.Errorf("read knowledge base dir: %w", err)
	}

	kb := KnowledgeBase{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var articles map[string]Article
		if err := json.Unmarshal(data, &articles); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		topic := strings.TrimSuffix(strings.TrimSuffix(e.Name(), ".json"), "_faq")
		kb[topic] = articles
	}
	return kb, nil
}

// Summary renders the available article questions grouped by topic, for
// inclusion in a drafting prompt. Topics and articles are emitted in sorted
// order so prompts are deterministic.
func (kb KnowledgeBase) Summary() string {
	if len(kb) == 0 {
		return "No knowledge base articles available.\n"
	}

	topics := make([]string, 0, len(kb))
	for topic := range kb {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var b strings.Builder
	b.WriteString("Available knowledge base articles:\n\n")
	for _, topic := range topics {
		fmt.Fprintf(&b, "%s FAQ:\n", strings.ToUpper(topic))
		keys := make([]string, 0, len(kb[topic]))
		for k := range kb[topic] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s\n", kb[topic][k].Question)
		}
	}
	return b.String()
}
