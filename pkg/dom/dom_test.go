package dom

import (
	"testing"

	"github.com/arthur-debert/weft/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkup = `
<page>
  <header data-feature="nav">
    <a href="#home">home</a>
  </header>
  <section>
    <article data-feature="highlight,share" data-feature-ignore="share">
      <p>body text</p>
      <aside data-feature="tooltip"/>
    </article>
  </section>
</page>`

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(markup)
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	t.Run("valid markup", func(t *testing.T) {
		doc := mustParse(t, sampleMarkup)
		assert.Equal(t, "page", doc.Root().Tag())
	})

	t.Run("malformed markup", func(t *testing.T) {
		_, err := Parse("<page><unclosed></page>")
		assert.True(t, errors.IsErrorCode(err, errors.ErrDocumentParse))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Parse("")
		assert.True(t, errors.IsErrorCode(err, errors.ErrDocumentParse))
	})
}

func TestCanonicalHandles(t *testing.T) {
	doc := mustParse(t, sampleMarkup)

	first := doc.Root().Find("//article")
	second := doc.Root().Find("//article")

	assert.Same(t, first, second)
}

func TestAttr(t *testing.T) {
	doc := mustParse(t, sampleMarkup)
	article := doc.Root().Find("//article")

	assert.Equal(t, "highlight,share", article.Attr("data-feature"))
	assert.Equal(t, "", article.Attr("missing"))
	assert.True(t, article.HasAttr("data-feature-ignore"))
	assert.False(t, article.HasAttr("missing"))
}

func TestFindByAttr(t *testing.T) {
	doc := mustParse(t, sampleMarkup)

	t.Run("document order from the root", func(t *testing.T) {
		found := doc.Root().FindByAttr("data-feature")
		require.Len(t, found, 3)
		assert.Equal(t, "header", found[0].Tag())
		assert.Equal(t, "article", found[1].Tag())
		assert.Equal(t, "aside", found[2].Tag())
	})

	t.Run("container itself included when it matches", func(t *testing.T) {
		article := doc.Root().Find("//article")
		found := article.FindByAttr("data-feature")
		require.Len(t, found, 2)
		assert.Same(t, article, found[0])
		assert.Equal(t, "aside", found[1].Tag())
	})
}

func TestContains(t *testing.T) {
	doc := mustParse(t, sampleMarkup)
	article := doc.Root().Find("//article")
	aside := doc.Root().Find("//aside")

	assert.True(t, article.Contains(aside))
	assert.True(t, doc.Root().Contains(article))
	assert.False(t, aside.Contains(article))
	assert.False(t, article.Contains(article))
}

func TestReplaceWith(t *testing.T) {
	t.Run("swaps element in place", func(t *testing.T) {
		doc := mustParse(t, sampleMarkup)
		article := doc.Root().Find("//article")
		replacement := doc.NewElement("figure")

		err := article.ReplaceWith(replacement)
		require.NoError(t, err)

		section := doc.Root().Find("//section")
		children := section.Children()
		require.Len(t, children, 1)
		assert.Equal(t, "figure", children[0].Tag())
		assert.Nil(t, doc.Root().Find("//article"))
	})

	t.Run("detached element", func(t *testing.T) {
		doc := mustParse(t, sampleMarkup)
		detached := doc.NewElement("div")

		err := detached.ReplaceWith(doc.NewElement("span"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrDetachedNode))
	})

	t.Run("nil replacement", func(t *testing.T) {
		doc := mustParse(t, sampleMarkup)
		err := doc.Root().Find("//article").ReplaceWith(nil)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestEventDispatch(t *testing.T) {
	doc := mustParse(t, sampleMarkup)
	article := doc.Root().Find("//article")

	var got []string
	first := article.AddEventListener("click", func(e *Event) {
		got = append(got, "first:"+e.Type)
	})
	article.AddEventListener("click", func(e *Event) {
		got = append(got, "second:"+e.Type)
	})

	article.Dispatch("click", nil)
	assert.Equal(t, []string{"first:click", "second:click"}, got)

	t.Run("events do not bubble", func(t *testing.T) {
		doc.Root().Find("//p").Dispatch("click", nil)
		assert.Len(t, got, 2)
	})

	t.Run("exact removal", func(t *testing.T) {
		article.RemoveEventListener(first)
		got = nil
		article.Dispatch("click", nil)
		assert.Equal(t, []string{"second:click"}, got)
		assert.Equal(t, 1, article.ListenerCount("click"))
	})

	t.Run("double removal is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			article.RemoveEventListener(first)
		})
		assert.Equal(t, 1, article.ListenerCount("click"))
	})
}

func TestListenerCounts(t *testing.T) {
	doc := mustParse(t, sampleMarkup)
	header := doc.Root().Find("//header")

	a := header.AddEventListener("click", func(e *Event) {})
	b := header.AddEventListener("focus", func(e *Event) {})

	assert.Equal(t, 1, header.ListenerCount("click"))
	assert.Equal(t, 2, header.AllListenerCount())

	header.RemoveEventListener(a)
	header.RemoveEventListener(b)
	assert.Zero(t, header.AllListenerCount())
}

func TestEventDataAndTarget(t *testing.T) {
	doc := mustParse(t, sampleMarkup)
	aside := doc.Root().Find("//aside")

	var seen *Event
	aside.AddEventListener("ping", func(e *Event) { seen = e })
	aside.Dispatch("ping", 42)

	require.NotNil(t, seen)
	assert.Same(t, aside, seen.Target)
	assert.Equal(t, 42, seen.Data)
}
