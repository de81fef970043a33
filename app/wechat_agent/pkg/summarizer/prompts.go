package summarizer

const translateRules = `注意：
- 直接输出中文翻译后的结果，不要输出任何其他无关内容。
- 禁止编造内容。
- 若存在专业英文术语，请保留该英文术语，可以不用将该英文术语翻译成中文。
- 对于$$包围的数学latex公式，请原封不动保留其$数据公式$的样式内容，不需要翻译它且不要删除$符号。`

const promptParagraph = `请将专业地中文翻译出以下Kaggle比赛Overview中的段落，并输出：

%s

` + translateRules

const promptOrderedList = `请将专业地中文翻译出以下Kaggle比赛Overview中的有序列表，并输出：

%s

` + translateRules + `
- 翻译结果请保留输入的原始有序列表符号，如1. 2. 3. 等。`

const promptUnorderedList = `请将专业地中文翻译出以下Kaggle比赛Overview中的无序列表，并输出：

%s

` + translateRules + `
- 翻译结果请保留输入的原始无序列表符号，即● 。`

const summaryRules = `注意：
- 用中文输出
- 总结要简洁明了，突出比赛的核心目标和任务
- 不要编造内容，只基于给定信息进行总结
- 保留专业术语的英文原文`

const promptSummaryFromDescription = `请根据以下Kaggle比赛的详细描述，生成一个简洁的比赛总览（不超过200字）：

%s

` + summaryRules

const promptSummaryOverview = `请将以下Kaggle比赛的多段overview总结为一个简洁的总览（不超过200字）：

%s

` + summaryRules

const promptCompKeywords = `请根据以下Kaggle比赛信息，给出关于该比赛类型的几个核心技术关键词（不超过4个）：

# 比赛标题：
%s

# 比赛总览：
%s

# 比赛描述：
%s

# 评估指标：
%s

注意：
1. 输出格式为列表，列表中每个元素为技术关键词，不要用"机器学习"、"深度学习"等通用且过于泛化的词汇；
2. 关于该比赛类型的技术关键词数量不能超过4个;
3. 用中文输出。

输出示例：['图像识别', '目标检测']`

const promptSolution = `您是一个Kaggle专家，擅长将Kaggle Discussion内的获奖方案进行总结。

具体解决方案全文如下：
%s

请帮我对以上给定的方案进行总结，总结格式要求如下json格式：

{
    "solution_description": "...",
    "core_techniques": [
        {
            "core_technique": "...",
            "core_technique_description": "..."
        },
        ...
    ],
    "solution_summary": "..."
}

关于各字段的说明：
- solution_description：解决方案描述。分点描述本解决方案的总体方法，包括数据处理、模型结构、训练，效果等，字数控制在150-300字以内；
- core_techniques：核心技术点。按内容分点整理出多个核心点，但不能超过5个，且每个核心点的描述内容的字数控制在150-500字以内。核心点包括提高评估分数的技巧与花较重篇幅介绍的核心技术内容，尽量详细描述其实现方式与使用原因，让没了解过该比赛的人也能理解其思路。
- solution_summary：解决方案总结。总结该解决方案，字数控制在150-500字以内。

注意：json内各字段下的内容都请用中文，但如果遇到AI领域或业务领域的专有名词，请保留对应词的英文表述。请不要使用**来强调任何内容。`

const promptAbstract = `请将以下学术论文的摘要内容专业地翻译成中文：

%s

注意：
- 直接输出中文翻译后的结果，不要输出任何其他无关内容。
- 禁止编造内容。
- 保持学术性和专业性。
- 对于专业英文术语，请保留该英文术语，可以在后面加上中文解释，格式为"英文术语(中文解释)"。
- 对于模型名称、算法名称、数据集名称、公司名称等专有名词，请保留英文原文。
- 对于数学公式和技术参数，请原封不动保留其格式。
- 翻译要准确、流畅、符合中文学术写作习惯。`

const promptPaperKeywords = `请根据以下学术论文信息，生成该论文的核心技术关键词（不超过5个）：

# 论文标题：
%s

# AI总结：
%s

# 摘要：
%s

注意：
1. 输出格式为JSON列表，列表中每个元素为技术关键词；
2. 关键词应该是具体的技术术语，避免使用"机器学习"、"深度学习"等过于泛化的词汇；
3. 关键词数量不能超过5个；
4. 优先使用中文，但对于专有名词可以保留英文；
5. 关键词应该能够准确反映论文的技术贡献和创新点。

输出示例：["VLA", "Agent", "多模态学习", "强化学习", "大语言模型"]`

const promptAppTranslate = `请将以下软件信息翻译成中文，保持JSON格式：

%s

翻译要求：
- 直接输出翻译后的JSON格式，不要输出任何其他内容
- sentence_description: 翻译成自然流畅的中文描述
- tags: 每个标签都翻译成中文，保持数组格式
- content_description: 翻译成完整的中文描述
- 对于专业术语，可以保留英文并在前面加中文解释，格式为"中文解释(English Term)"
- 对于公司名、产品名、技术名称等专有名词，建议保留英文原文
- 禁止编造内容，如果原文为空则保持为空

输出格式示例：
{
  "sentence_description": "翻译后的一句话描述",
  "tags": ["翻译后标签1", "翻译后标签2"],
  "content_description": "翻译后的详细描述"
}`

const promptAppSummary = `请根据以下软件信息和官网内容，生成中文总结，分3个段落，格式如下：

<格式要求>
目标用户是xxx (不超过100字)

xx产品的亮点功能包括xxx（可以分点，也可以分句描述。不超过150字）

差异化优势在于xxx（不超过100字）
</格式要求>

<参考输出的例子>
目标用户主要是中大型企业团队、项目经理以及需要跨部门协作的专业人士，解决了信息碎片化、工具繁杂切换和工作流断裂等痛点。

ClickUp 的亮点功能包括其新推出的 Brain MAX AI 桌面应用，集成多款大语言模型，实现跨平台的智能搜索和自动化任务执行；支持语音转文本和语音指令。

差异化优势在于侧重"故事叙事"而非单次图像生成，实现视觉内容的连贯叙事和多样风格融合。
</参考输出的例子>

现在请根据以下软件信息和官网内容，生成其对应的中文总结：

【软件标题】%s
【一句话描述】%s
【详细描述】%s
【官网主要内容】%s

要求：
- 先总结目标用户
- 再总结亮点功能（不少于2点）
- 最后总结差异化优势
- 语言精炼、专业、有条理
- 不要编造内容，无法判断的可不写`
