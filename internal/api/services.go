package api

// Service accessors group Client methods by resource. Each service embeds
// *Client so the dispatcher and auth state are shared.

type AccountsService struct{ *Client }

type CollectionsService struct{ *Client }

type DetectorsService struct{ *Client }

type ImagesService struct{ *Client }

type LabelsService struct{ *Client }

type StreamsService struct{ *Client }

type VideosService struct{ *Client }

type SummariesService struct{ *Client }

func (c *Client) Accounts() AccountsService {
	return AccountsService{c}
}

func (c *Client) Collections() CollectionsService {
	return CollectionsService{c}
}

func (c *Client) Detectors() DetectorsService {
	return DetectorsService{c}
}

func (c *Client) Images() ImagesService {
	return ImagesService{c}
}

func (c *Client) Labels() LabelsService {
	return LabelsService{c}
}

func (c *Client) Streams() StreamsService {
	return StreamsService{c}
}

func (c *Client) Videos() VideosService {
	return VideosService{c}
}

func (c *Client) Summaries() SummariesService {
	return SummariesService{c}
}
