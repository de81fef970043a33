package model

// Paper Hugging Face 周榜论文
type Paper struct {
	Index          int    `json:"index"`
	Title          string `json:"title"`
	HFURL          string `json:"hf_url"`
	Likes          int    `json:"likes"`
	AuthorCount    int    `json:"author_count"`
	GithubStars    string `json:"github_stars,omitempty"`
	CoverURL       string `json:"cover_url,omitempty"`
	CoverType      string `json:"cover_type,omitempty"` // image / video
	CoverLocalPath string `json:"cover_local_path,omitempty"`
	CoverUploadURL string `json:"cover_upload_url,omitempty"`

	PublishedDate string   `json:"published_date,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	AISummary     string   `json:"ai_summary,omitempty"`
	Abstract      string   `json:"abstract,omitempty"`
	PDFURL        string   `json:"pdf_url,omitempty"`
	GithubURL     string   `json:"github_url,omitempty"`
	ImageURLs     []string `json:"paper_img_urls,omitempty"`
}

// ZhPaper 翻译后的论文
type ZhPaper struct {
	Paper
	ZhAISummary     string   `json:"zh_ai_summary"`
	ZhAbstract      string   `json:"zh_abstract"`
	Keywords        []string `json:"keywords"`
	ZhPublishedDate string   `json:"zh_published_date"`
}
