package docbridge

// DefaultCatalog returns the built-in documentation catalog in load order.
func DefaultCatalog() []*Source {
	return []*Source{
		{Name: "Python 3.12", Origin: "https://docs.python.org/3.12/", Priority: 1, Description: "Core Python 3.12 documentation"},
		{Name: "Pydantic v2", Origin: "https://docs.pydantic.dev/latest/", Priority: 1, Description: "Pydantic v2 data validation"},
		{Name: "FastAPI", Origin: "https://fastapi.tiangolo.com/", Priority: 1, Description: "FastAPI web framework"},
		{Name: "Django", Origin: "https://docs.djangoproject.com/en/stable/", Priority: 2, Description: "Django web framework"},
		{Name: "React 19", Origin: "https://react.dev/", Priority: 1, Description: "React 19 documentation"},
		{Name: "Vite", Origin: "https://vitejs.dev/", Priority: 2, Description: "Vite build tool"},
		{Name: "Tailwind CSS v4", Origin: "https://tailwindcss.com/docs", Priority: 2, Description: "Tailwind CSS v4 utility framework"},
		{Name: "MongoDB", Origin: "https://www.mongodb.com/docs/", Priority: 1, Description: "MongoDB database documentation"},
		{Name: "Express.js", Origin: "https://expressjs.com/", Priority: 2, Description: "Express.js Node framework"},
		{Name: "LangChain", Origin: "https://python.langchain.com/docs/", Priority: 1, Description: "LangChain LLM framework"},
		{Name: "CrewAI", Origin: "https://docs.crewai.com/", Priority: 1, Description: "CrewAI multi-agent framework"},
		{Name: "Docker", Origin: "https://docs.docker.com/", Priority: 1, Description: "Docker containerization"},
		{Name: "ChromaDB", Origin: "https://docs.trychroma.com/", Priority: 1, Description: "ChromaDB vector database"},
		{Name: "Neon Postgres", Origin: "https://neon.tech/docs/", Priority: 1, Description: "Neon serverless Postgres"},
		{Name: "Redis", Origin: "https://redis.io/docs/", Priority: 1, Description: "Redis in-memory database"},
		{Name: "Telnyx", Origin: "https://developers.telnyx.com/docs/", Priority: 2, Description: "Telnyx telephony API"},
		{Name: "Grafana", Origin: "https://grafana.com/docs/", Priority: 2, Description: "Grafana monitoring"},
	}
}
