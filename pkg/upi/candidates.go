package upi

import "strings"

// Platform 客户端平台，由 User-Agent 推断
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformDesktop Platform = "desktop"
)

// CandidateKind 唤起候选的类别
type CandidateKind string

const (
	KindGeneric   CandidateKind = "generic"   // 通用 upi:// 链接
	KindApp       CandidateKind = "app"       // App 专属 scheme
	KindUniversal CandidateKind = "universal" // iOS universal link
	KindWeb       CandidateKind = "web"       // 网页回退
)

// Candidate 一次唤起尝试的目标
type Candidate struct {
	Kind CandidateKind `json:"kind"`
	Name string        `json:"name"`
	URL  string        `json:"url"`
}

// Candidates 完整的唤起顺序：通用链接、App scheme、universal links、网页回退
func Candidates(d PaymentData) []Candidate {
	apps := AppLinks(d)
	universal := UniversalLinks(d)

	list := make([]Candidate, 0, 2+len(apps)+len(universal))
	list = append(list, Candidate{Kind: KindGeneric, Name: "UPI", URL: BuildURI(d)})
	for _, app := range apps {
		list = append(list, Candidate{Kind: KindApp, Name: app.Name, URL: app.Scheme})
	}
	for _, link := range universal {
		list = append(list, Candidate{Kind: KindUniversal, Name: hostOf(link), URL: link})
	}
	list = append(list, Candidate{Kind: KindWeb, Name: "Web UPI", URL: WebURL(d)})
	return list
}

// CandidatesFor 按平台裁剪唤起顺序
// Android 直接处理 upi:// 链接，桌面端只能走网页回退。
func CandidatesFor(p Platform, d PaymentData) []Candidate {
	switch p {
	case PlatformIOS:
		return Candidates(d)
	case PlatformAndroid:
		return []Candidate{
			{Kind: KindGeneric, Name: "UPI", URL: BuildURI(d)},
			{Kind: KindWeb, Name: "Web UPI", URL: WebURL(d)},
		}
	default:
		return []Candidate{{Kind: KindWeb, Name: "Web UPI", URL: WebURL(d)}}
	}
}

// DetectPlatform 从 User-Agent 推断平台
func DetectPlatform(userAgent string) Platform {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return PlatformIOS
	case strings.Contains(ua, "android"):
		return PlatformAndroid
	default:
		return PlatformDesktop
	}
}

func hostOf(link string) string {
	host := strings.TrimPrefix(link, "https://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}
