package forum

import (
	"testing"
)

const (
	linkA = "ed2k://|file|Show.S01E01.mkv|734003200|AABBCCDDEEFF00112233445566778899|/"
	linkB = "ed2k://|file|Show.S01E02.mkv|734003201|99887766554433221100FFEEDDCCBBAA|/"
)

func TestExtractEd2kLinksFromHrefs(t *testing.T) {
	html := `<div class="postbody"><div class="content">
		<a href="` + linkA + `">ep1</a>
		<a href="` + linkB + `">ep2</a>
		<a href="` + linkA + `">ep1 again</a>
	</div></div>`

	links := ExtractEd2kLinks(html)
	if len(links) != 2 {
		t.Fatalf("expected 2 deduplicated links, got %d: %v", len(links), links)
	}
	if links[0] != linkA || links[1] != linkB {
		t.Errorf("unexpected links: %v", links)
	}
}

func TestExtractEd2kLinksFromFilearray(t *testing.T) {
	html := `<div class="postbody"><div class="content">
		<script>
			filearray0[0] = '` + linkA + `';
			filearray0[1] = '` + linkB + `';
		</script>
	</div></div>`

	links := ExtractEd2kLinks(html)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d: %v", len(links), links)
	}
}

func TestExtractEd2kLinksLooseText(t *testing.T) {
	html := `<div class="postbody"><div class="content"><p>` + linkA + `</p></div></div>`

	links := ExtractEd2kLinks(html)
	if len(links) != 1 || links[0] != linkA {
		t.Fatalf("expected loose link, got %v", links)
	}
}

func TestExtractEd2kLinksNoContent(t *testing.T) {
	if links := ExtractEd2kLinks("<html><body>niente</body></html>"); len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}

func TestParseEd2kLink(t *testing.T) {
	parsed := ParseEd2kLink("ed2k://|file|Some%20Movie.mkv|1234567|AABB|/")
	if parsed.Name != "Some Movie.mkv" {
		t.Errorf("expected decoded name, got %q", parsed.Name)
	}
	if parsed.Size != "1234567" {
		t.Errorf("expected size 1234567, got %q", parsed.Size)
	}

	malformed := ParseEd2kLink("ed2k://broken")
	if malformed.Name != "ed2k://broken" || malformed.Size != "" {
		t.Errorf("malformed link should fall back to raw: %+v", malformed)
	}
}

func TestComputeEd2kStats(t *testing.T) {
	stats := ComputeEd2kStats([]Ed2kLink{
		{Size: "100"},
		{Size: "250"},
		{Size: "not-a-number"},
		{},
	})
	if stats.Count != 4 {
		t.Errorf("expected count 4, got %d", stats.Count)
	}
	if stats.TotalBytes != 350 {
		t.Errorf("expected 350 total bytes, got %d", stats.TotalBytes)
	}
}
