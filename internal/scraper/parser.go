package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/utils"
)

const maxActors = 5

// 详情页 #info 字段，按顺序匹配到下一个已知标签为止
var (
	reDirector = regexp.MustCompile(`(?s)导演:(.*?)(?:编剧|主演|类型|$)`)
	reActor    = regexp.MustCompile(`(?s)主演:(.*?)(?:类型|制片国家|$)`)
	reGenre    = regexp.MustCompile(`(?s)类型:(.*?)(?:制片国家|语言|$)`)
	reCountry  = regexp.MustCompile(`(?s)制片国家/地区:(.*?)(?:语言|上映日期|$)`)
	reLanguage = regexp.MustCompile(`(?s)语言:(.*?)(?:上映日期|片长|$)`)
	reRelease  = regexp.MustCompile(`(?s)上映日期:(.*?)(?:片长|又名|$)`)
	reDuration = regexp.MustCompile(`(?s)片长:(.*?)(?:又名|IMDb|$)`)
	reAka      = regexp.MustCompile(`(?s)又名:(.*?)(?:IMDb|$)`)
	reIMDb     = regexp.MustCompile(`(?s)IMDb:(.*?)$`)
)

// Detail 详情页解析结果
type Detail struct {
	Directors   []string
	Actors      []string
	Genres      []string
	Countries   []string
	Language    string
	ReleaseDate string
	Duration    string
	Aka         []string
	IMDbID      string
	Summary     string
}

// ParseListPage 解析榜单页，start 为本页第一条的偏移量
func ParseListPage(doc *goquery.Document, start int) []model.MovieRecord {
	records := []model.MovieRecord{}
	doc.Find(".grid_view li").Each(func(i int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find(".title").First().Text())

		originalTitle := strings.TrimSpace(item.Find(".other").First().Text())
		originalTitle = strings.TrimSpace(strings.TrimPrefix(originalTitle, "/"))
		if originalTitle == "" {
			originalTitle = title
		}

		rating, _ := strconv.ParseFloat(strings.TrimSpace(item.Find(".rating_num").First().Text()), 64)
		cover, _ := item.Find("img").First().Attr("src")
		link, _ := item.Find(".hd a").First().Attr("href")

		records = append(records, model.MovieRecord{
			Title:         title,
			OriginalTitle: originalTitle,
			Year:          utils.FirstYear(item.Find(".bd p").First().Text()),
			Rating:        rating,
			RatingCount:   utils.Digits(item.Find(".star span").Last().Text()),
			CoverImageURL: cover,
			DoubanURL:     link,
			Quote:         strings.TrimSpace(item.Find(".inq").First().Text()),
			Rank:          start + i + 1,
		})
	})
	return records
}

// ParseDetailPage 解析电影详情页
func ParseDetailPage(doc *goquery.Document) Detail {
	var d Detail

	info := doc.Find("#info").Text()
	if info != "" {
		d.Directors = matchList(reDirector, info)
		d.Actors = matchList(reActor, info)
		if len(d.Actors) > maxActors {
			d.Actors = d.Actors[:maxActors]
		}
		d.Genres = matchList(reGenre, info)
		d.Countries = matchList(reCountry, info)
		d.Language = matchText(reLanguage, info)
		if release := matchText(reRelease, info); release != "" {
			d.ReleaseDate = strings.TrimSpace(strings.Split(release, "/")[0])
		}
		d.Duration = matchText(reDuration, info)
		d.Aka = matchList(reAka, info)
		d.IMDbID = matchText(reIMDb, info)
	}

	d.Summary = strings.TrimSpace(doc.Find(`span[property="v:summary"]`).First().Text())
	return d
}

// Apply 合并详情字段，缺失的数组字段置为空数组
func (d Detail) Apply(rec *model.MovieRecord) {
	rec.Directors = orEmpty(d.Directors)
	rec.Actors = orEmpty(d.Actors)
	rec.Genres = orEmpty(d.Genres)
	rec.Countries = orEmpty(d.Countries)
	rec.Aka = orEmpty(d.Aka)
	rec.Language = d.Language
	rec.ReleaseDate = d.ReleaseDate
	rec.Duration = d.Duration
	rec.IMDbID = d.IMDbID
	rec.Summary = d.Summary
}

func matchText(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func matchList(re *regexp.Regexp, text string) []string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	return utils.SplitSlash(m[1])
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
