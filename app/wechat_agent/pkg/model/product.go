package model

// Product Product Hunt 周榜产品
type Product struct {
	Index               int      `json:"index"`
	ImgURL              string   `json:"img_url"`
	Title               string   `json:"title"`
	ProductHuntURL      string   `json:"producthunt_url"`
	SentenceDescription string   `json:"sentence_description"`
	Tags                []string `json:"tags"`
	Comments            string   `json:"comments"`
	Upvotes             string   `json:"upvotes"`
	IconLocalPath       string   `json:"app_icon_local_path,omitempty"`
	IconUploadURL       string   `json:"app_icon_upload_url,omitempty"`

	ContentDescription string   `json:"content_description,omitempty"`
	Rating             string   `json:"rating,omitempty"`
	Fans               string   `json:"fans,omitempty"`
	Website            string   `json:"product_website,omitempty"`
	ImageURLs          []string `json:"image_urls,omitempty"`        // 页面原图
	ImagesUploadURL    []string `json:"images_upload_url,omitempty"` // 已上传的素材地址
}

// ZhProduct 翻译后的产品
type ZhProduct struct {
	Product
	ZhSentenceDescription string   `json:"zh_sentence_description"`
	ZhTags                []string `json:"zh_tags"`
	ZhContentDescription  string   `json:"zh_content_description"`
	ZhSummary             string   `json:"zh_summary"`
}
