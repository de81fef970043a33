package model

// Element 页面中按顺序抽取的一个内容块
type Element struct {
	Type    string `json:"type"` // p / ol / ul / table / image / pre / h1 / h2 ...
	Content string `json:"content"`
}

// Competition 比赛列表中的一项
type Competition struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description"`
	CompType    string `json:"comp_type"`
	TeamNumber  string `json:"team_number"`
	LeaveTime   string `json:"leave_time"`
	CompReward  string `json:"comp_reward"`
	CurrentDate string `json:"current_date"`
}

// CompOverview 比赛总览页信息
type CompOverview struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Overview      []Element `json:"overview"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Description   []Element `json:"description"`
	Host          string    `json:"host"`
	Participation []string  `json:"participation"`
	Tags          []string  `json:"tags"`
	Evaluation    []Element `json:"evaluation"`
	Timeline      []Element `json:"timeline"`
	Prize         []Element `json:"prize"`
}

// ZhOverview 翻译后的比赛总览
type ZhOverview struct {
	Name          string    `json:"竞赛名称"`
	Subtitle      string    `json:"竞赛副标题"`
	CompType      string    `json:"竞赛类型"`
	Keywords      []string  `json:"竞赛关键词"`
	Host          string    `json:"组织者"`
	StartTime     string    `json:"开始时间"`
	EndTime       string    `json:"结束时间"`
	Participation []string  `json:"竞赛参与人数"`
	URL           string    `json:"竞赛网站"`
	Overview      []Element `json:"竞赛总览"`
	Description   []Element `json:"详细描述"`
	Evaluation    []Element `json:"评估指标"`
	Timeline      []Element `json:"时间线"`
	Prize         []Element `json:"奖金"`
}

// Discussion 讨论区列表中的一个帖子
type Discussion struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Author     string `json:"author"`
	AuthorLink string `json:"author_link"`
	PostTime   string `json:"post_time"`
	Likes      string `json:"likes"`
}

// DiscussionDetail 帖子详情，Markdown 为落盘的完整文档
type DiscussionDetail struct {
	CompTitle  string            `json:"comp_title"`
	Title      string            `json:"title"`
	AuthorRank string            `json:"author_rank"`
	PostTime   string            `json:"post_time"`
	URL        string            `json:"url"`
	Markdown   string            `json:"markdown"`
	Images     map[string]string `json:"images"` // 图片文件名 -> 原始地址
}

// TopSolution 排名靠前的方案帖
type TopSolution struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
	URL  string `json:"url"`
	Path string `json:"path"`
}

// CoreTechnique 方案中的一个核心技巧
type CoreTechnique struct {
	Technique   string `json:"core_technique"`
	Description string `json:"core_technique_description"`
}

// SolutionSummary LLM 对方案的结构化总结
type SolutionSummary struct {
	SolutionDescription string          `json:"solution_description"`
	CoreTechniques      []CoreTechnique `json:"core_techniques"`
	SolutionSummary     string          `json:"solution_summary"`
	Raw                 string          `json:"raw,omitempty"` // 解析失败时保留原始输出
}

// SolutionEntry top_solution_summarys.json 中的一项
type SolutionEntry struct {
	Title             string          `json:"title"`
	Rank              int             `json:"rank"`
	URL               string          `json:"url"`
	DiscussionContent string          `json:"discussion_content"`
	Summary           SolutionSummary `json:"summary"`
	ImageURLs         []string        `json:"image_urls,omitempty"`
}
