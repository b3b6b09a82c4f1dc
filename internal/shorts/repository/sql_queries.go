package repository

const (
	getVoiceByIDQuery = `SELECT voice_id, name, language, gender, model_s3_key, config_s3_key
					FROM voices WHERE voice_id = $1`
	listVoicesQuery = `SELECT voice_id, name, language, gender, model_s3_key, config_s3_key
					FROM voices ORDER BY name`
	getTrackByIDQuery = `SELECT track_id, name, category, duration, s3_key
					FROM music_tracks WHERE track_id = $1`
	listTracksQuery = `SELECT track_id, name, category, duration, s3_key
					FROM music_tracks ORDER BY category, name`
)
