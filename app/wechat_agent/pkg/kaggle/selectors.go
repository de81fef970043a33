package kaggle

// 页面结构随 Kaggle 改版变化，选择器集中放在这里
const (
	BaseURL        = "https://www.kaggle.com"
	CompetitionURL = BaseURL + "/competitions"

	xpathListViewButton = `//*[@id="site-content"]/div[2]/div/div[4]/div/div[2]/div/div[1]/button[1]`
	xpathNextPage       = `//*[@id="site-content"]/div[2]/div/div[5]/div/div/div/ul[2]/li[11]/button`

	selCompItems       = `#site-content > div:nth-of-type(2) > div > div:nth-of-type(5) > div > div > div > ul:nth-of-type(1) > li > div`
	selCompName        = `a > div > div:nth-of-type(2) > div`
	selCompDescription = `a > div > div:nth-of-type(2) > span:nth-of-type(1)`
	selCompMeta        = `a > div > div:nth-of-type(2) > span:nth-of-type(2) > span`

	selCompTitle     = `#site-content > div:nth-of-type(2) > div > div > div:nth-of-type(2) > div:nth-of-type(2) > div:nth-of-type(1) > h1`
	selOverview      = `#abstract > div:nth-of-type(1) > div:nth-of-type(2) > div`
	selStartTime     = `#abstract > div:nth-of-type(2) > div > div > div:nth-of-type(1) > div:nth-of-type(1) > span`
	selEndTime       = `#abstract > div:nth-of-type(2) > div > div > div:nth-of-type(1) > div:nth-of-type(2) > span`
	selDescription   = `#description > div > div:nth-of-type(2) > div > div`
	selHost          = `#site-content > div:nth-of-type(2) > div > div > div:nth-of-type(6) > div:nth-of-type(4) > div > div:nth-of-type(1) > div:nth-of-type(1) > p`
	selParticipation = `#site-content > div:nth-of-type(2) > div > div > div:nth-of-type(6) > div:nth-of-type(4) > div > div:nth-of-type(3) > div > p`
	selTags          = `#combo-tags-menu-chipset > a > span`

	selDiscussionList  = `#site-content > div:nth-of-type(2) > div > div > div:nth-of-type(6) > div > div > div:nth-of-type(2) > div > div:nth-of-type(4)`
	selNoDiscussions   = selDiscussionList + ` > div:nth-of-type(2) > h2`
	selDiscussionItems = selDiscussionList + ` > ul:nth-of-type(1)`
	selDisTitle        = `div > a > div > div:nth-of-type(2) > div > div`
	selDisLink         = `div > a`

	// 序列化后的 HTML 不能嵌套 <a>，作者与时间不限定在标题链接内
	selDisAuthor   = `span > span:nth-of-type(1) > a`
	selDisPostTime = `span > span:nth-of-type(2) > span`
	selDisLikes    = `div > div > div > div:nth-of-type(1) > span`

	selPost        = `#site-content > div:nth-of-type(2) > div > div > div:nth-of-type(6) > div > div > div:nth-of-type(1) > div:nth-of-type(1)`
	selPostTitle   = selPost + ` > h3`
	selPostMeta    = selPost + ` > div:nth-of-type(1) > div`
	selPostContent = selPost + ` > div:nth-of-type(3) > div > div`
)

// sectionBody evaluation / timeline / prizes 等分区正文
func sectionBody(id string) string {
	return "#" + id + " > div > div:nth-of-type(2) > div > div"
}
