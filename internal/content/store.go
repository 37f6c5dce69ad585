package content

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"gopkg.in/yaml.v3"

	"github.com/kapu/mathsprint-site-go/internal/util"
	apperrors "github.com/kapu/mathsprint-site-go/pkg/errors"
)

const frontMatterDelimiter = "---"

// Sections: 콘텐츠 저장소가 허용하는 섹션 목록.
var Sections = []string{"services", "projects", "blog", "legal"}

// Page: 마크다운 한 편의 메타데이터와 본문.
type Page struct {
	Section string    `json:"section"`
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Summary string    `json:"summary,omitempty"`
	Date    time.Time `json:"date,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
	Order   int       `json:"order,omitempty"`
	Body    string    `json:"body"`
}

// frontMatter: 파일 상단 YAML 블록 스키마.
type frontMatter struct {
	Title   string    `yaml:"title"`
	Slug    string    `yaml:"slug"`
	Summary string    `yaml:"summary"`
	Date    time.Time `yaml:"date"`
	Tags    []string  `yaml:"tags"`
	Order   int       `yaml:"order"`
	Draft   bool      `yaml:"draft"`
}

// Store: 콘텐츠 디렉터리의 마크다운 페이지를 메모리에 적재해 제공한다.
// 섹션별 하위 디렉터리(services/, projects/, blog/, legal/)를 읽으며,
// draft: true 인 페이지는 적재 대상에서 제외한다.
type Store struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	pages map[string]map[string]*Page // section -> slug -> page
}

// NewStore: 저장소를 만들고 전체 섹션을 적재한다. 디렉터리가 없으면
// 빈 저장소로 동작한다.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		dir:    dir,
		logger: logger,
		pages:  make(map[string]map[string]*Page),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload: 디스크에서 전체 섹션을 다시 읽는다. 섹션 단위로 병렬 적재한다.
func (s *Store) Reload() error {
	loaded := make(map[string]map[string]*Page, len(Sections))
	var mu sync.Mutex

	p := pool.New().WithErrors()
	for _, section := range Sections {
		section := section
		p.Go(func() error {
			pages, err := s.loadSection(section)
			if err != nil {
				return err
			}
			mu.Lock()
			loaded[section] = pages
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	total := 0
	for _, pages := range loaded {
		total += len(pages)
	}

	s.mu.Lock()
	s.pages = loaded
	s.mu.Unlock()

	s.logger.Info("Content store loaded",
		slog.String("dir", s.dir),
		slog.Int("pages", total),
	)
	return nil
}

// loadSection: 한 섹션 디렉터리의 모든 .md 파일을 파싱한다.
func (s *Store) loadSection(section string) (map[string]*Page, error) {
	pages := make(map[string]*Page)

	entries, err := os.ReadDir(filepath.Join(s.dir, section))
	if err != nil {
		if os.IsNotExist(err) {
			return pages, nil
		}
		return nil, fmt.Errorf("failed to read content section %s: %w", section, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(s.dir, section, entry.Name())
		page, draft, err := parsePage(section, entry.Name(), path)
		if err != nil {
			return nil, err
		}
		if draft {
			s.logger.Debug("Skipping draft page",
				slog.String("section", section),
				slog.String("file", entry.Name()),
			)
			continue
		}
		pages[page.Slug] = page
	}
	return pages, nil
}

// parsePage: 파일 하나를 front matter + 본문으로 분해한다.
func parsePage(section, filename, path string) (*Page, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read content file %s: %w", path, err)
	}

	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse front matter in %s: %w", path, err)
	}
	if fm.Draft {
		return nil, true, nil
	}

	slug := fm.Slug
	if slug == "" {
		slug = util.Slugify(strings.TrimSuffix(filename, ".md"))
	}
	title := fm.Title
	if title == "" {
		title = strings.TrimSuffix(filename, ".md")
	}

	return &Page{
		Section: section,
		Slug:    slug,
		Title:   title,
		Summary: fm.Summary,
		Date:    fm.Date,
		Tags:    fm.Tags,
		Order:   fm.Order,
		Body:    strings.TrimSpace(string(body)),
	}, false, nil
}

// splitFrontMatter: "---" 구분자로 감싼 YAML 블록과 나머지 본문을 분리한다.
// front matter가 없으면 전체를 본문으로 취급한다.
func splitFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var fm frontMatter

	trimmed := bytes.TrimLeft(raw, "\ufeff\n\r ")
	if !bytes.HasPrefix(trimmed, []byte(frontMatterDelimiter)) {
		return fm, raw, nil
	}

	rest := trimmed[len(frontMatterDelimiter):]
	idx := bytes.Index(rest, []byte("\n"+frontMatterDelimiter))
	if idx < 0 {
		return fm, nil, fmt.Errorf("unterminated front matter block")
	}

	block := rest[:idx]
	body := rest[idx+len(frontMatterDelimiter)+1:]

	if err := yaml.Unmarshal(block, &fm); err != nil {
		return fm, nil, err
	}
	return fm, body, nil
}

// Get: 섹션/슬러그로 페이지 한 편을 조회한다.
func (s *Store) Get(section, slug string) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages, ok := s.pages[section]
	if !ok {
		return nil, apperrors.NewNotFoundError("content section", section)
	}
	page, ok := pages[slug]
	if !ok {
		return nil, apperrors.NewNotFoundError("content page", section+"/"+slug)
	}
	return page, nil
}

// List: 섹션의 전체 페이지를 정렬해 반환한다.
// order 오름차순, 같으면 date 내림차순, 같으면 slug 오름차순.
func (s *Store) List(section string) ([]*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages, ok := s.pages[section]
	if !ok {
		return nil, apperrors.NewNotFoundError("content section", section)
	}

	out := make([]*Page, 0, len(pages))
	for _, page := range pages {
		out = append(out, page)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}
